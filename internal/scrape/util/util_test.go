package util_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhuatDuy04/crawl/internal/scrape/util"
)

func TestListURL(t *testing.T) {
	got, err := util.ListURL("https://123job.vn/tuyen-dung", "1", 3)
	require.NoError(t, err)
	assert.Equal(t, "https://123job.vn/tuyen-dung?job_type=1&page=3", got)

	got, err = util.ListURL("https://123job.vn/tuyen-dung?sort=new", "2", 1)
	require.NoError(t, err)
	assert.Equal(t, "https://123job.vn/tuyen-dung?job_type=2&page=1&sort=new", got)
}

func TestResolve(t *testing.T) {
	base, err := url.Parse("https://123job.vn/tuyen-dung?job_type=1&page=2")
	require.NoError(t, err)

	assert.Equal(t, "https://123job.vn/viec-lam/a-1.html", util.Resolve(base, "/viec-lam/a-1.html"))
	assert.Equal(t, "https://123job.vn/viec-lam/b.html#apply", util.Resolve(base, " https://123job.vn/viec-lam/b.html#apply "))
	assert.Equal(t, "https://123job.vn/tuyen-dung?job_type=1&page=2#top", util.Resolve(base, "#top"))
	assert.Equal(t, "", util.Resolve(base, "  "))
	assert.Equal(t, "/x", util.Resolve(nil, "/x"))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "123job.vn", util.HostOf("https://123JOB.vn/tuyen-dung"))
	assert.Equal(t, "_", util.HostOf("not a url"))
}

func TestHostLimiterSpacesSameHost(t *testing.T) {
	hl := util.NewHostLimiter(20, 1)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, hl.WaitURL(ctx, "https://123job.vn/a"))
	require.NoError(t, hl.WaitURL(ctx, "https://123job.vn/b"))
	require.NoError(t, hl.WaitURL(ctx, "https://123job.vn/c"))
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestHostLimiterDisabledAndNil(t *testing.T) {
	hl := util.NewHostLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, hl.WaitURL(context.Background(), "https://123job.vn/a"))
	}

	var none *util.HostLimiter
	assert.NoError(t, none.WaitURL(context.Background(), "https://123job.vn/a"))
}

func TestHostLimiterHonoursContext(t *testing.T) {
	hl := util.NewHostLimiter(0.01, 1)
	require.NoError(t, hl.WaitURL(context.Background(), "https://123job.vn/a"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, hl.WaitURL(ctx, "https://123job.vn/b"))
}
