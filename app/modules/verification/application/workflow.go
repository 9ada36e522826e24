package verificationservice

import (
	"context"
	"fmt"

	auditevents "github.com/Black-And-White-Club/lp-bot/app/modules/audit/events"
	verificationdomain "github.com/Black-And-White-Club/lp-bot/app/modules/verification/domain"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
)

const (
	reviewTitle = "Nouvelle demande VIP"
	reviewColor = 0x00bfff
	statusField = "Statut"

	approvedColor = 0x00ff00
	rejectedColor = 0xff0000
)

// Submit validates sub and posts it to the staff channel with decision buttons.
func (s *VerificationService) Submit(ctx context.Context, applicant platform.Actor, sub verificationdomain.Submission) (verificationdomain.Request, error) {
	return run(s, ctx, "Submit", applicant.ID, func(ctx context.Context) (verificationdomain.Request, error) {
		sub = sub.Normalize()
		if err := validateSubmission(s.validate, sub); err != nil {
			return verificationdomain.Request{}, err
		}

		req := verificationdomain.Request{
			ID:           s.newID(),
			ApplicantID:  applicant.ID,
			ApplicantTag: applicant.Tag,
			Submission:   sub,
			Status:       verificationdomain.StatusPending,
			SubmittedAt:  s.now().UTC(),
		}

		messageID, ok := s.platform.SendMessage(ctx, s.cfg.StaffChannelID, reviewMessage(req))
		if !ok {
			return verificationdomain.Request{}, ErrReviewUnavailable
		}
		req.ReviewChannelID = s.cfg.StaffChannelID
		req.ReviewMessageID = messageID
		s.registry.Add(req)

		s.metrics.RecordDecision(ctx, "submitted")
		s.audit.Record(ctx, auditevents.AuditRecordedPayloadV1{
			Operation: auditevents.OperationVerificationSubmit,
			ActorID:   applicant.ID,
			TargetID:  applicant.ID,
			Message:   fmt.Sprintf("📥 Nouvelle demande VIP soumise par %s.", applicant.Tag),
		})
		return req, nil
	})
}

// Approve moves the applicant from the unverified role to the verified role,
// ensures a points account, redecorates the nickname, closes the review
// message and welcomes the member. An applicant that cannot be fetched
// aborts the approval before the request is decided.
func (s *VerificationService) Approve(ctx context.Context, actor platform.Actor, in DecisionInput) (verificationdomain.Request, error) {
	return run(s, ctx, "Approve", in.RequestID, func(ctx context.Context) (verificationdomain.Request, error) {
		if !s.points.IsStaff(ctx, actor.ID) {
			return verificationdomain.Request{}, ErrPermissionDenied
		}
		member, err := s.pendingApplicant(ctx, in)
		if err != nil {
			return verificationdomain.Request{}, err
		}

		req, err := s.decide(ctx, actor, in, verificationdomain.DecisionApprove)
		if err != nil {
			return req, err
		}

		if s.cfg.UnverifiedRoleID != "" && member.HasRole(s.cfg.UnverifiedRoleID) {
			s.platform.RemoveRole(ctx, req.ApplicantID, s.cfg.UnverifiedRoleID)
		}
		if s.cfg.VerifiedRoleID != "" && !member.HasRole(s.cfg.VerifiedRoleID) {
			s.platform.AddRole(ctx, req.ApplicantID, s.cfg.VerifiedRoleID)
		}
		s.points.EnsureAccount(ctx, req.ApplicantID)
		s.points.DecorateMember(ctx, req.ApplicantID)

		s.annotate(ctx, in, platform.EmbedField{Name: statusField, Value: "✅ Approuvé"}, approvedColor)
		s.platform.SendMessage(ctx, s.cfg.VIPChannelID, platform.Message{
			Content: fmt.Sprintf("🎉 Bienvenue %s ! Votre accès VIP a été approuvé.", platform.Mention(req.ApplicantID)),
		})

		s.audit.Record(ctx, auditevents.AuditRecordedPayloadV1{
			Operation: auditevents.OperationVerificationApprove,
			ActorID:   actor.ID,
			TargetID:  req.ApplicantID,
			Message:   fmt.Sprintf("✅ %s a approuvé la demande VIP de %s.", actor.Tag, memberLabel(member, req.ApplicantID)),
		})
		return req, nil
	})
}

// Reject closes the review message. Roles and points are untouched.
func (s *VerificationService) Reject(ctx context.Context, actor platform.Actor, in DecisionInput) (verificationdomain.Request, error) {
	return run(s, ctx, "Reject", in.RequestID, func(ctx context.Context) (verificationdomain.Request, error) {
		if !s.points.IsStaff(ctx, actor.ID) {
			return verificationdomain.Request{}, ErrPermissionDenied
		}
		req, err := s.decide(ctx, actor, in, verificationdomain.DecisionReject)
		if err != nil {
			return req, err
		}

		s.annotate(ctx, in, platform.EmbedField{Name: statusField, Value: "❌ Refusé"}, rejectedColor)

		member := s.platform.Member(ctx, req.ApplicantID)
		s.audit.Record(ctx, auditevents.AuditRecordedPayloadV1{
			Operation: auditevents.OperationVerificationReject,
			ActorID:   actor.ID,
			TargetID:  req.ApplicantID,
			Message:   fmt.Sprintf("❌ %s a refusé la demande VIP de %s.", actor.Tag, memberLabel(member, req.ApplicantID)),
		})
		return req, nil
	})
}

// pendingApplicant fetches the member targeted by an approval. Decided and
// unknown requests skip the lookup and are reported by decide.
func (s *VerificationService) pendingApplicant(ctx context.Context, in DecisionInput) (*platform.Member, error) {
	applicantID := in.ApplicantID
	if req, ok := s.registry.Get(in.RequestID); ok {
		if req.Status.Terminal() {
			return nil, nil
		}
		applicantID = req.ApplicantID
	}
	if in.RequestID == "" || applicantID == "" {
		return nil, nil
	}

	member := s.platform.Member(ctx, applicantID)
	if member == nil {
		s.logger.WarnContext(ctx, "Applicant unavailable, approval not applied",
			attr.ExtractCorrelationID(ctx),
			attr.String("request_id", in.RequestID),
			attr.UserID(applicantID),
		)
		return nil, ErrApplicantUnavailable
	}
	return member, nil
}

// decide runs the compare-and-swap on the request status.
func (s *VerificationService) decide(ctx context.Context, actor platform.Actor, in DecisionInput, d verificationdomain.Decision) (verificationdomain.Request, error) {
	req, err := s.registry.Decide(in.RequestID, in.ApplicantID, d, actor.ID, s.now().UTC())
	if err != nil {
		return req, err
	}

	s.metrics.RecordDecision(ctx, string(req.Status))
	s.logger.InfoContext(ctx, "Verification request decided",
		attr.ExtractCorrelationID(ctx),
		attr.String("request_id", req.ID),
		attr.UserID(req.ApplicantID),
		attr.String("status", string(req.Status)),
		attr.String("decided_by", actor.ID),
	)
	return req, nil
}

func (s *VerificationService) annotate(ctx context.Context, in DecisionInput, status platform.EmbedField, color int) {
	channelID, messageID := in.ChannelID, in.MessageID
	if messageID == "" {
		if req, ok := s.registry.Get(in.RequestID); ok {
			channelID, messageID = req.ReviewChannelID, req.ReviewMessageID
		}
	}
	if messageID == "" {
		return
	}
	s.platform.AnnotateMessage(ctx, channelID, messageID, status, color)
}

func reviewMessage(req verificationdomain.Request) platform.Message {
	sponsor := req.Submission.Sponsor
	if sponsor == "" {
		sponsor = "Aucun"
	}
	return platform.Message{
		Embeds: []platform.Embed{{
			Title: reviewTitle,
			Color: reviewColor,
			Fields: []platform.EmbedField{
				{Name: "Utilisateur", Value: fmt.Sprintf("%s (%s)", platform.Mention(req.ApplicantID), req.ApplicantTag)},
				{Name: "Pseudo Celsius", Value: req.Submission.CelsiusHandle},
				{Name: "Parrain", Value: sponsor},
				{Name: "Adresse email", Value: req.Submission.Email},
			},
			Timestamp: true,
		}},
		Buttons: []platform.Button{
			{
				CustomID: verificationdomain.DecisionCustomID(verificationdomain.DecisionApprove, req.ID, req.ApplicantID),
				Label:    "Approuver",
				Style:    platform.ButtonSuccess,
			},
			{
				CustomID: verificationdomain.DecisionCustomID(verificationdomain.DecisionReject, req.ID, req.ApplicantID),
				Label:    "Refuser",
				Style:    platform.ButtonDanger,
			},
		},
	}
}

func memberLabel(m *platform.Member, userID string) string {
	if m != nil && m.Username != "" {
		return m.Username
	}
	return platform.Mention(userID)
}
