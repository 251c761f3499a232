package directory

import "context"

type StoreAPI interface {
	Load(ctx context.Context) (Snapshot, error)
}
