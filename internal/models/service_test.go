package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	c := &ServiceConsumption{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("12.50"),
	}
	c.ComputeTotal()
	assert.True(t, c.Total.Equal(decimal.RequireFromString("37.50")))

	c.Quantity = 1
	c.ComputeTotal()
	assert.True(t, c.Total.Equal(decimal.RequireFromString("12.50")))
}

func TestSnapshotUnitPrice(t *testing.T) {
	base := decimal.RequireFromString("25.00")

	// Zero price takes the catalog base price
	c := &ServiceConsumption{}
	c.SnapshotUnitPrice(base)
	assert.True(t, c.UnitPrice.Equal(base))

	// An explicit price wins over the catalog
	c = &ServiceConsumption{UnitPrice: decimal.RequireFromString("19.90")}
	c.SnapshotUnitPrice(base)
	assert.True(t, c.UnitPrice.Equal(decimal.RequireFromString("19.90")))

	// A later catalog change must not touch the snapshot
	c.SnapshotUnitPrice(decimal.RequireFromString("99.00"))
	assert.True(t, c.UnitPrice.Equal(decimal.RequireFromString("19.90")))
}
