package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"docmint/internal/documents/models"
	"docmint/internal/records"
	dErrors "docmint/pkg/domain-errors"
)

// buildTranscriptPayload aggregates the user's full score board into a table
// binding plus a GPA summary.
func (s *Service) buildTranscriptPayload(
	ctx context.Context,
	user *records.User,
	docType *records.DocumentType,
) (*models.RenderPayload, error) {
	rows, err := s.scores.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, lookupError(err, "score board lookup failed")
	}
	if len(rows) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no score board records for user")
	}

	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		score := "-"
		if final, ok := row.FinalScore(); ok {
			score = decimal.NewFromFloat(final).Round(2).String()
		}
		tableRows = append(tableRows, []string{
			row.AcademicYear,
			row.Semester,
			row.CourseCode,
			row.CourseName,
			strconv.Itoa(row.Credits),
			score,
			row.LetterGrade,
		})
	}

	bindings := []models.FieldBinding{
		{Name: models.BindingNameStudent, Kind: models.BindingText, Value: user.FullName},
		{Name: "student_code", Kind: models.BindingText, Value: user.StudentCode},
		{Name: "major", Kind: models.BindingText, Value: user.Major},
		{
			Name:    "courses",
			Kind:    models.BindingTable,
			Columns: []string{"Year", "Semester", "Code", "Course", "Credits", "Score", "Grade"},
			Rows:    tableRows,
		},
	}
	if gpa, ok := GPA(rows); ok {
		bindings = append(bindings, models.FieldBinding{
			Name: "gpa", Kind: models.BindingNumber, Value: gpa.String(),
		})
	}
	bindings = append(bindings, models.FieldBinding{
		Name: models.QRCodeBinding, Kind: models.BindingQR,
		Value: fmt.Sprintf("transcript:%s", user.ID.String()),
	})

	return &models.RenderPayload{
		Version:  models.RenderPayloadVersion,
		Template: models.TemplateDescriptor{Name: docType.Name, Layout: docType.TemplatePDF},
		Bindings: bindings,
	}, nil
}

// GPA computes the credit-weighted average of final scores, rounded to two
// decimals. Rows without any filled score slot are skipped. Returns ok=false
// when no credits count toward the average.
func GPA(rows []records.ScoreRow) (decimal.Decimal, bool) {
	weighted := decimal.Zero
	credits := decimal.Zero
	for _, row := range rows {
		final, ok := row.FinalScore()
		if !ok {
			continue
		}
		c := decimal.NewFromInt(int64(row.Credits))
		weighted = weighted.Add(decimal.NewFromFloat(final).Mul(c))
		credits = credits.Add(c)
	}
	if credits.IsZero() {
		return decimal.Zero, false
	}
	return weighted.DivRound(credits, 2), true
}
