package vendors

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/procureflow/procureflow/internal/platform/httpx"
)

type memoryVendorRepo struct {
	vendors map[int64]Vendor
	nextID  int64
}

func newMemoryVendorRepo() *memoryVendorRepo {
	return &memoryVendorRepo{vendors: make(map[int64]Vendor)}
}

func (r *memoryVendorRepo) List(ctx context.Context, search string) ([]Vendor, error) {
	var out []Vendor
	for _, v := range r.vendors {
		out = append(out, v)
	}
	return out, nil
}

func (r *memoryVendorRepo) Get(ctx context.Context, id int64) (Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return Vendor{}, httpx.ErrNotFound
	}
	return v, nil
}

func (r *memoryVendorRepo) Create(ctx context.Context, input CreateVendorInput) (Vendor, error) {
	for _, v := range r.vendors {
		if v.Code == input.Code {
			return Vendor{}, httpx.ErrDuplicate
		}
	}
	r.nextID++
	v := Vendor{ID: r.nextID, Code: input.Code, Name: input.Name, Contact: input.Contact, Email: input.Email}
	r.vendors[v.ID] = v
	return v, nil
}

func (r *memoryVendorRepo) GetOpeningBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	v, ok := r.vendors[id]
	if !ok {
		return decimal.Decimal{}, httpx.ErrNotFound
	}
	return v.OpeningBalance, nil
}

func (r *memoryVendorRepo) SetOpeningBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	v, ok := r.vendors[id]
	if !ok {
		return httpx.ErrNotFound
	}
	v.OpeningBalance = balance
	r.vendors[id] = v
	return nil
}

type countingInvalidator struct {
	bumps int
}

func (c *countingInvalidator) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

func TestCreateVendorValidation(t *testing.T) {
	svc := NewService(newMemoryVendorRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateVendorInput{Name: "No Code"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), CreateVendorInput{Code: "V1", Name: "Acme", Email: "not-an-email"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	v, err := svc.Create(context.Background(), CreateVendorInput{Code: "V1", Name: "Acme Steel", Email: "ap@acme.test"})
	require.NoError(t, err)
	require.Equal(t, "V1", v.Code)
	require.True(t, v.OpeningBalance.IsZero())
}

func TestCreateVendorDuplicateCode(t *testing.T) {
	svc := NewService(newMemoryVendorRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateVendorInput{Code: "V1", Name: "Acme Steel"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateVendorInput{Code: "V1", Name: "Acme Copy"})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestSaveOpeningBalanceBumpsCache(t *testing.T) {
	repo := newMemoryVendorRepo()
	inv := &countingInvalidator{}
	svc := NewService(repo, inv, nil)

	v, err := svc.Create(context.Background(), CreateVendorInput{Code: "V2", Name: "Bolt Traders"})
	require.NoError(t, err)

	err = svc.SaveOpeningBalance(context.Background(), v.ID, UpdateOpeningBalanceInput{
		OpeningBalance: decimal.RequireFromString("-1200.50"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, inv.bumps)

	balance, err := svc.OpeningBalance(context.Background(), v.ID)
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("-1200.50")))
}

func TestOpeningBalanceUnknownVendor(t *testing.T) {
	svc := NewService(newMemoryVendorRepo(), nil, nil)

	_, err := svc.OpeningBalance(context.Background(), 99)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	err = svc.SaveOpeningBalance(context.Background(), 99, UpdateOpeningBalanceInput{})
	require.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, httpx.ErrValidation)
}
