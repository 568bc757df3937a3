package services

import (
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "savertounsi/internal/errors"
	"savertounsi/internal/models"
)

// reportService builds read-only reporting projections.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// MonthlySummary aggregates the user's category totals, the per-group
// rollup, and the selected month's transaction sums. The independent
// queries run concurrently.
func (s *reportService) MonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var (
		categories    []CategoryReport
		monthIncome   float64
		monthExpenses float64
	)

	var g errgroup.Group
	g.Go(func() error {
		return s.db.Model(&models.Category{}).
			Select("categories.id AS category_id, categories.name AS name, category_groups.name AS group_name, categories.budget AS budget, categories.spent AS spent").
			Joins("JOIN category_groups ON category_groups.id = categories.group_id AND category_groups.deleted_at IS NULL").
			Where("category_groups.user_id = ?", userID).
			Order("category_groups.name, categories.name").
			Scan(&categories).Error
	})
	g.Go(func() error {
		return s.sumTransactions(userID, models.TransactionTypeIncome, monthStart, monthEnd, &monthIncome)
	})
	g.Go(func() error {
		return s.sumTransactions(userID, models.TransactionTypeExpense, monthStart, monthEnd, &monthExpenses)
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &MonthlySummary{
		Year:          year,
		Month:         int(month),
		MonthIncome:   monthIncome,
		MonthExpenses: monthExpenses,
		Categories:    categories,
	}

	groupTotals := make(map[string]*GroupReport)
	for i := range summary.Categories {
		cat := &summary.Categories[i]
		cat.Saved = cat.Budget - cat.Spent

		summary.TotalBudget += cat.Budget
		summary.TotalSpent += cat.Spent
		summary.TotalSaved += cat.Saved

		rollup, ok := groupTotals[cat.GroupName]
		if !ok {
			rollup = &GroupReport{Name: cat.GroupName}
			groupTotals[cat.GroupName] = rollup
		}
		rollup.Budget += cat.Budget
		rollup.Spent += cat.Spent
		rollup.Saved += cat.Saved
	}

	summary.Groups = make([]GroupReport, 0, len(groupTotals))
	for _, rollup := range groupTotals {
		summary.Groups = append(summary.Groups, *rollup)
	}
	sort.Slice(summary.Groups, func(i, j int) bool {
		return summary.Groups[i].Name < summary.Groups[j].Name
	})
	if summary.Categories == nil {
		summary.Categories = []CategoryReport{}
	}

	return summary, nil
}

func (s *reportService) sumTransactions(userID uint, transactionType models.TransactionType, from, to time.Time, out *float64) error {
	return s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, transactionType, from, to).
		Scan(out).Error
}

// ChallengeReport builds one entry per enrollment: the synthetic
// five-point goal curve used as chart scaffolding, plus the real
// progress log.
func (s *reportService) ChallengeReport(userID uint) ([]ChallengeReportEntry, error) {
	var userChallenges []models.UserChallenge
	if err := s.db.Preload("Challenge").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&userChallenges).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries := make([]ChallengeReportEntry, 0, len(userChallenges))
	if len(userChallenges) == 0 {
		return entries, nil
	}

	ids := make([]uint, 0, len(userChallenges))
	for _, uc := range userChallenges {
		ids = append(ids, uc.ID)
	}

	var log []models.ChallengeProgress
	if err := s.db.Where("user_challenge_id IN ?", ids).
		Order("date").
		Find(&log).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logByChallenge := make(map[uint][]models.ChallengeProgress, len(ids))
	for _, entry := range log {
		logByChallenge[entry.UserChallengeID] = append(logByChallenge[entry.UserChallengeID], entry)
	}

	for _, uc := range userChallenges {
		goal := uc.Challenge.Goal
		entryLog := logByChallenge[uc.ID]
		if entryLog == nil {
			entryLog = []models.ChallengeProgress{}
		}
		entries = append(entries, ChallengeReportEntry{
			UserChallengeID: uc.ID,
			Title:           uc.Challenge.Title,
			Goal:            goal,
			Progress:        uc.Progress,
			Completed:       uc.Completed,
			Curve:           []float64{0, goal * 0.25, goal * 0.5, goal * 0.75, goal},
			Log:             entryLog,
		})
	}

	return entries, nil
}
