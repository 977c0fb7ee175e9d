package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csmentors/scheduler-api/internal/models"
	appErrors "github.com/csmentors/scheduler-api/pkg/errors"
)

type mockPresenceRepo struct {
	codes     []models.PresenceCode
	listCalls int
	seeded    []models.PresenceCode
}

func (m *mockPresenceRepo) List(_ context.Context) ([]models.PresenceCode, error) {
	m.listCalls++
	return m.codes, nil
}

func (m *mockPresenceRepo) Seed(_ context.Context, codes []models.PresenceCode) error {
	m.seeded = codes
	return nil
}

type mapCache struct {
	values map[string][]byte
	sets   int
}

func (c *mapCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	codes := dest.(*[]models.PresenceCode)
	_ = raw
	*codes = []models.PresenceCode{{Code: "PR", Label: "Present"}}
	return nil
}

func (c *mapCache) Set(_ context.Context, key string, _ interface{}, _ time.Duration) error {
	if c.values == nil {
		c.values = make(map[string][]byte)
	}
	c.values[key] = []byte("cached")
	c.sets++
	return nil
}

func TestParseDefaults(t *testing.T) {
	codes := ParseDefaults([]string{
		"PR:Present:green",
		"un:Unexcused Absence:red",
		":Your section does not meet this week:gray",
		"broken",
	})
	require.Len(t, codes, 3)
	assert.Equal(t, "PR", codes[0].Code)
	assert.Equal(t, "green", codes[0].ColorToken)
	assert.Equal(t, "UN", codes[1].Code)
	assert.Equal(t, "", codes[2].Code)
	assert.Equal(t, "Your section does not meet this week", codes[2].Label)
}

func TestListPopulatesCacheOnMiss(t *testing.T) {
	repo := &mockPresenceRepo{codes: []models.PresenceCode{{Code: "PR", Label: "Present"}}}
	cache := &mapCache{}
	svc := NewPresenceService(repo, cache, time.Minute, nil)

	codes, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, codes, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.sets)

	// Second read is served from cache.
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestCodesBuildsSetWithEmptyMember(t *testing.T) {
	repo := &mockPresenceRepo{codes: []models.PresenceCode{
		{Code: "PR", Label: "Present"},
		{Code: "", Label: "Your section does not meet this week"},
	}}
	svc := NewPresenceService(repo, nil, 0, nil)

	set, err := svc.Codes(context.Background())
	require.NoError(t, err)
	assert.True(t, set.Contains("PR"))
	assert.True(t, set.Contains(""))
	assert.False(t, set.Contains("ZZ"))
}

func TestSeedPassesConfiguredDefaults(t *testing.T) {
	repo := &mockPresenceRepo{}
	svc := NewPresenceService(repo, nil, 0, nil)

	defaults := ParseDefaults([]string{"PR:Present:green"})
	require.NoError(t, svc.Seed(context.Background(), defaults))
	assert.Equal(t, defaults, repo.seeded)

	require.NoError(t, svc.Seed(context.Background(), nil))
}
