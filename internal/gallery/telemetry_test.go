package gallery_test

import (
	"context"
	"errors"
	"testing"

	"gallery/internal/gallery"
	"gallery/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func counterTotal(t *testing.T, reader sdkmetric.Reader, name string) int64 {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	remote := mocks.NewRemote(t)
	remote.On("FetchAll", mock.Anything).Return(nil, errors.New("unreachable")).Once()
	_, err := gallery.NewCollection(anonymous, remote).Load(context.Background())
	require.Error(t, err)

	c := loaded(t, viewer, remote)
	remote.On("SetLikeState", mock.Anything, "u1", "w1", true).Return(errors.New("unavailable")).Once()
	remote.On("RecordDownload", mock.Anything, "u1", "w2").Return(errors.New("quota")).Once()

	_, err = c.ToggleLike(context.Background(), "w1")
	require.Error(t, err)
	c.RecordDownload(context.Background(), "w2")

	assert.Equal(t, int64(1), counterTotal(t, reader, "gallery.load.fallbacks"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "gallery.like.rollbacks"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "gallery.download.write_failures"))
}
