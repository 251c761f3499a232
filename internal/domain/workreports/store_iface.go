package workreports

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, report Report) error
	List(ctx context.Context, filter Filter) ([]Report, error)
	Get(ctx context.Context, id string) (Report, error)
	ReplaceTasks(ctx context.Context, id string, tasks []Task, modifiedAt time.Time, modifiedBy string) (Report, error)
	Delete(ctx context.Context, id string) error
}
