package repository

import "context"

// SettingRepository is the persisted key/value configuration store. Get
// returns the empty string for unset keys.
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
