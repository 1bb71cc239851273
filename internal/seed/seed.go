package seed

import (
	"log/slog"
	"time"

	"github.com/vigilia/patrol-ops/internal/domain"
	"github.com/vigilia/patrol-ops/internal/repository"
	"github.com/vigilia/patrol-ops/internal/schedule"
	"github.com/vigilia/patrol-ops/internal/utils"
)

// SeedUsers inserts n random users and returns how many made it in.
func SeedUsers(repo *repository.Repository, n int, password, emailDomain string) int {
	inserted := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(password, emailDomain)
		if err != nil {
			slog.Error("cannot generate random user", slog.String("error", err.Error()))
			continue
		}

		if err := repo.CreateUser(user); err != nil {
			slog.Error("cannot insert user", slog.String("error", err.Error()))
			continue
		}

		inserted++
	}

	return inserted
}

// SeedShifts fills the given number of weeks, starting from the current week,
// with random valid shift records for every active user. At most one record
// per person per day, matching what the scheduling views produce.
func SeedShifts(repo *repository.Repository, weeks int) int {
	users, err := repo.GetAllUsers()
	if err != nil {
		slog.Error("cannot fetch users", slog.String("error", err.Error()))
		return 0
	}

	weekStart := schedule.StartOfWeek(time.Now())
	inserted := 0

	for _, user := range users {
		if !user.IsActive {
			continue
		}

		for w := 0; w < weeks; w++ {
			for d := 0; d < 7; d++ {
				assignment := utils.GenerateRandomAssignment()
				if assignment == nil {
					continue
				}

				day := weekStart.AddDate(0, 0, w*7+d)
				record, err := domain.NewShiftPayload(user.ID, day, assignment)
				if err != nil {
					slog.Error("cannot build shift payload", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateShift(record); err != nil {
					slog.Error("cannot insert shift", slog.String("error", err.Error()))
					continue
				}

				inserted++
			}
		}
	}

	return inserted
}
