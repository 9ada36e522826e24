package leaderboardservice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	auditevents "github.com/Black-And-White-Club/lp-bot/app/modules/audit/events"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet       = "Points"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// XLSXExporter writes accounts to a single-sheet workbook.
type XLSXExporter struct {
	ranks *pointsdomain.RankTable
}

// NewXLSXExporter creates an exporter labelling rows with ranks.
func NewXLSXExporter(ranks *pointsdomain.RankTable) *XLSXExporter {
	return &XLSXExporter{ranks: ranks}
}

// Write renders accounts sorted by LP, highest first, with columns userId, LP, SP and Rank.
func (e *XLSXExporter) Write(w io.Writer, accounts []pointsdomain.Account) error {
	sorted := make([]pointsdomain.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LP > sorted[j].LP
	})

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(defaultSheet, exportSheet); err != nil {
		return fmt.Errorf("failed to name export sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &[]interface{}{"userId", "LP", "SP", "Rank"}); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for idx, a := range sorted {
		axis, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		label := ""
		if e.ranks != nil {
			label = e.ranks.ResolveTier(a.LP).Label
		}
		row := []interface{}{a.UserID, a.LP, a.SP, label}
		if err := f.SetSheetRow(exportSheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write export row %d: %w", idx+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportPoints returns every account as an XLSX attachment. Staff only.
func (s *LeaderboardService) ExportPoints(ctx context.Context, actor platform.Actor) (platform.File, error) {
	return run(s, ctx, "ExportPoints", actor.ID, func(ctx context.Context) (platform.File, error) {
		if !s.staff.IsStaff(ctx, actor.ID) {
			return platform.File{}, ErrPermissionDenied
		}

		accounts := s.store.Accounts()
		var buf bytes.Buffer
		if err := s.exporter.Write(&buf, accounts); err != nil {
			return platform.File{}, err
		}

		s.audit.Record(ctx, auditevents.AuditRecordedPayloadV1{
			Operation: auditevents.OperationPointsExported,
			ActorID:   actor.ID,
			Message:   fmt.Sprintf("📤 %s a exporté les points (%d comptes).", actor.Tag, len(accounts)),
		})
		return platform.File{
			Name:        fmt.Sprintf("points-%s.xlsx", time.Now().UTC().Format("20060102-150405")),
			ContentType: exportContentType,
			Data:        buf.Bytes(),
		}, nil
	})
}
