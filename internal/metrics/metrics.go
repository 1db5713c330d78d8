package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder holds the shop's business instruments. A nil *Recorder is valid and records nothing.
type Recorder struct {
	ordersPlaced   metric.Int64Counter
	ordersCanceled metric.Int64Counter
	statusChanges  metric.Int64Counter
	stockUnits     metric.Int64Counter
	placeDuration  metric.Float64Histogram
}

// New builds a Recorder on the given meter provider (the global one when nil).
func New(mp metric.MeterProvider) (*Recorder, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter("quickcart-be/shop")

	var (
		r   Recorder
		err error
	)
	if r.ordersPlaced, err = meter.Int64Counter("shop.orders.placed",
		metric.WithDescription("Orders placed")); err != nil {
		return nil, err
	}
	if r.ordersCanceled, err = meter.Int64Counter("shop.orders.canceled",
		metric.WithDescription("Orders canceled by customers or sellers")); err != nil {
		return nil, err
	}
	if r.statusChanges, err = meter.Int64Counter("shop.orders.status_changes",
		metric.WithDescription("Order status transitions")); err != nil {
		return nil, err
	}
	if r.stockUnits, err = meter.Int64Counter("shop.stock.units_moved",
		metric.WithDescription("Units moved in or out of stock"), metric.WithUnit("{unit}")); err != nil {
		return nil, err
	}
	if r.placeDuration, err = meter.Float64Histogram("shop.orders.place.duration",
		metric.WithDescription("Time spent placing an order"), metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Recorder) OrderPlaced(ctx context.Context, quantity int, took time.Duration) {
	if r == nil {
		return
	}
	r.ordersPlaced.Add(ctx, 1)
	r.stockUnits.Add(ctx, int64(quantity), metric.WithAttributes(attribute.String("direction", "out")))
	r.placeDuration.Record(ctx, took.Seconds())
}

func (r *Recorder) OrderCanceled(ctx context.Context, restored int) {
	if r == nil {
		return
	}
	r.ordersCanceled.Add(ctx, 1)
	if restored > 0 {
		r.stockUnits.Add(ctx, int64(restored), metric.WithAttributes(attribute.String("direction", "in")))
	}
}

func (r *Recorder) StatusChanged(ctx context.Context, from, to string) {
	if r == nil {
		return
	}
	r.statusChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

func (r *Recorder) StockAdjusted(ctx context.Context, delta int) {
	if r == nil || delta == 0 {
		return
	}
	direction := "in"
	if delta < 0 {
		direction = "out"
		delta = -delta
	}
	r.stockUnits.Add(ctx, int64(delta), metric.WithAttributes(attribute.String("direction", direction)))
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
