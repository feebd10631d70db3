package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/bitmaura/finscore/internal/analysis"
	"github.com/bitmaura/finscore/internal/buildinfo"
	"github.com/bitmaura/finscore/internal/foir"
)

// StatementRequest carries one statement as text or spreadsheet rows.
type StatementRequest struct {
	Text   string     `json:"text"`
	Rows   [][]string `json:"rows"`
	Bank   string     `json:"bank"`
	JobID  string     `json:"job_id"`
	UserID string     `json:"user_id"`
}

// AnalyzeRequest adds the eligibility inputs to a statement.
type AnalyzeRequest struct {
	StatementRequest
	DeclaredIncome    decimal.Decimal `json:"declared_income"`
	TenureMonths      int             `json:"tenure_months"`
	AnnualRatePercent float64         `json:"annual_rate_percent"`
}

func (r StatementRequest) input() analysis.Input {
	return analysis.Input{
		Text:    r.Text,
		Rows:    r.Rows,
		Bank:    r.Bank,
		Options: analysis.Options{JobID: r.JobID, UserID: r.UserID},
	}
}

func (r StatementRequest) validate() error {
	if r.Text == "" && len(r.Rows) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "text or rows is required")
	}
	return nil
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) parse(c *fiber.Ctx) error {
	var req StatementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := req.validate(); err != nil {
		return err
	}

	res, err := s.svc.Parse(req.input())
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *Server) analyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := req.validate(); err != nil {
		return err
	}
	if req.TenureMonths < 0 || req.AnnualRatePercent < 0 || req.DeclaredIncome.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "declared_income, tenure_months and annual_rate_percent must not be negative")
	}

	in := req.input()
	in.DeclaredIncome = req.DeclaredIncome
	in.FOIR = foir.Options{
		TenureMonths:      req.TenureMonths,
		AnnualRatePercent: req.AnnualRatePercent,
	}

	report, err := s.svc.Run(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(report)
}
