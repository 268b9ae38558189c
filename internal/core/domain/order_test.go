package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.OrderStatus
		target domain.OrderStatus
		want   bool
	}{
		{
			name:   "pending can be approved",
			from:   domain.OrderPending,
			target: domain.OrderApproved,
			want:   true,
		},
		{
			name:   "pending can be cancelled",
			from:   domain.OrderPending,
			target: domain.OrderCancelled,
			want:   true,
		},
		{
			name:   "pending cannot ship directly",
			from:   domain.OrderPending,
			target: domain.OrderShipped,
			want:   false,
		},
		{
			name:   "approved can ship",
			from:   domain.OrderApproved,
			target: domain.OrderShipped,
			want:   true,
		},
		{
			name:   "approved can be cancelled",
			from:   domain.OrderApproved,
			target: domain.OrderCancelled,
			want:   true,
		},
		{
			name:   "approved cannot go back to pending",
			from:   domain.OrderApproved,
			target: domain.OrderPending,
			want:   false,
		},
		{
			name:   "shipped is terminal",
			from:   domain.OrderShipped,
			target: domain.OrderCancelled,
			want:   false,
		},
		{
			name:   "cancelled is terminal",
			from:   domain.OrderCancelled,
			target: domain.OrderApproved,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.CanTransitionTo(tt.target)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.False(t, domain.OrderPending.Terminal())
	assert.False(t, domain.OrderApproved.Terminal())
	assert.True(t, domain.OrderShipped.Terminal())
	assert.True(t, domain.OrderCancelled.Terminal())
}

func TestOrderLine_Subtotals(t *testing.T) {
	catalog := domain.NewCatalogLine("line-1", "order-1", "prod-1", "Beras 5kg",
		decimal.NewFromInt(100), decimal.NewFromInt(2))
	assert.Equal(t, domain.LineCatalog, catalog.Kind)
	assert.NotNil(t, catalog.ProductID)
	assert.True(t, catalog.Subtotal.Equal(decimal.NewFromInt(200)))

	freeText := domain.NewFreeTextLine("line-2", "order-1", "Ongkos kirim",
		decimal.NewFromFloat(12.5), decimal.NewFromInt(3))
	assert.Equal(t, domain.LineFreeText, freeText.Kind)
	assert.Nil(t, freeText.ProductID)
	assert.True(t, freeText.Subtotal.Equal(decimal.NewFromFloat(37.5)))

	total := domain.LinesTotal([]domain.OrderLine{catalog, freeText})
	assert.True(t, total.Equal(decimal.NewFromFloat(237.5)))

	assert.True(t, domain.LinesTotal(nil).IsZero())
}

func TestUserTenantRole_AtLeast(t *testing.T) {
	tests := []struct {
		name string
		role domain.UserTenantRole
		min  domain.UserTenantRole
		want bool
	}{
		{name: "admin satisfies admin", role: domain.RoleAdmin, min: domain.RoleAdmin, want: true},
		{name: "admin satisfies salesperson", role: domain.RoleAdmin, min: domain.RoleSalesperson, want: true},
		{name: "salesperson satisfies readonly", role: domain.RoleSalesperson, min: domain.RoleReadOnly, want: true},
		{name: "salesperson does not satisfy admin", role: domain.RoleSalesperson, min: domain.RoleAdmin, want: false},
		{name: "readonly does not satisfy salesperson", role: domain.RoleReadOnly, min: domain.RoleSalesperson, want: false},
		{name: "removed satisfies nothing", role: domain.RoleRemoved, min: domain.RoleReadOnly, want: false},
		{name: "unknown minimum satisfies nothing", role: domain.RoleAdmin, min: domain.RoleRemoved, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.role.AtLeast(tt.min)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserTenant_CommissionRateFor(t *testing.T) {
	membership := domain.UserTenant{
		CashCommissionRate:   decimal.NewFromInt(10),
		CreditCommissionRate: decimal.NewFromInt(5),
	}

	assert.True(t, membership.CommissionRateFor(domain.PaymentCash).Equal(decimal.NewFromInt(10)))
	assert.True(t, membership.CommissionRateFor(domain.PaymentCredit).Equal(decimal.NewFromInt(5)))
	assert.True(t, membership.CommissionRateFor(domain.PaymentMethod("BARTER")).IsZero())
}

func TestLedgerEntry_SignedAmount(t *testing.T) {
	in := domain.LedgerEntry{Amount: decimal.NewFromInt(150), Direction: domain.DirectionIn}
	assert.True(t, in.SignedAmount().Equal(decimal.NewFromInt(150)))

	out := domain.LedgerEntry{Amount: decimal.NewFromInt(150), Direction: domain.DirectionOut}
	assert.True(t, out.SignedAmount().Equal(decimal.NewFromInt(-150)))
}
