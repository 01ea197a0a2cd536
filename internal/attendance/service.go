package attendance

import (
	"context"
	"database/sql"
	"time"

	"ADMS-backend/internal/platform/apierr"
)

type store interface {
	Append(ctx context.Context, e *Event) error
	List(ctx context.Context, q ListQuery) ([]Event, int64, error)
}

type Service struct {
	store store
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

// Append は打刻を1件追記する。同じ PIN/時刻の再送もそのまま別行になる。
func (s *Service) Append(ctx context.Context, e *Event) error {
	return s.store.Append(ctx, e)
}

// GET /logs
func (s *Service) List(ctx context.Context, q ListQuery) (ListLogsResponse, error) {
	if q.Date != nil && *q.Date != "" {
		if _, err := time.ParseInLocation(DateLayout, *q.Date, time.UTC); err != nil {
			return ListLogsResponse{}, apierr.ErrInvalid("date must be YYYY-MM-DD")
		}
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Offset < 0 {
		return ListLogsResponse{}, apierr.ErrInvalid("offset must be >= 0")
	}

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return ListLogsResponse{}, err
	}
	out := ListLogsResponse{Logs: make([]EventResponse, 0, len(rows)), Total: total}
	for i := range rows {
		out.Logs = append(out.Logs, rows[i].toDTO())
	}
	return out, nil
}
