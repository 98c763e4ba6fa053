// Package kvstore holds the key-value persistence backends. Values are stored
// as JSON documents; callers decode them into their own types.
package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	// Set faz upsert do valor serializado em JSON.
	Set(ctx context.Context, key string, value any) error
	// Get decodifica o valor em dest ou retorna ErrNotFound.
	Get(ctx context.Context, key string, dest any) error
	// GetByPrefix não garante ordem.
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)
	// Delete é idempotente.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
