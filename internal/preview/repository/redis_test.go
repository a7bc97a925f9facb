package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/AbdelrahmanM1/invoicemaker/internal/invoice/render"
	previewdomain "github.com/AbdelrahmanM1/invoicemaker/internal/preview/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRepositoryRoundTrip(t *testing.T) {
	addr := os.Getenv("INVOICEMAKER_REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("INVOICEMAKER_REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	repo := NewRedisRepository(client, time.Minute)
	repo.prefix = "invoicemaker:test:" + uuid.NewString() + ":"

	p := previewdomain.Preview{
		ID:         uuid.NewString(),
		TemplateID: "template-1",
		Record: render.RecordFromMap(map[string]any{
			"name":  "Acme",
			"items": []any{map[string]any{"description": "A"}},
		}),
		HTML:      "<p>Acme</p>",
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Insert(ctx, p))
	t.Cleanup(func() { client.Del(ctx, repo.key(p.ID)) })

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.HTML, got.HTML)
	assert.Equal(t, p.Record, got.Record)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	ttl, err := client.TTL(ctx, repo.key(p.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, errors.Is(err, previewdomain.ErrNotFound))
}
