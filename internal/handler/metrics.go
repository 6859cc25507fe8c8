package handler

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/xenking/storefront/internal/handler"

type metrics struct {
	cartMutations     metric.Int64Counter
	promoApplications metric.Int64Counter
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	meter := mp.Meter(meterName)

	cartMutations, err := meter.Int64Counter("storefront.cart.mutations",
		metric.WithDescription("Selection store mutations by operation and outcome"),
	)
	if err != nil {
		return nil, err
	}
	promoApplications, err := meter.Int64Counter("storefront.promo.applications",
		metric.WithDescription("Promo code attempts by result"),
	)
	if err != nil {
		return nil, err
	}
	return &metrics{
		cartMutations:     cartMutations,
		promoApplications: promoApplications,
	}, nil
}

func (m *metrics) mutation(ctx context.Context, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.cartMutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}

func (m *metrics) promo(ctx context.Context, applied bool) {
	result := "rejected"
	if applied {
		result = "applied"
	}
	m.promoApplications.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
