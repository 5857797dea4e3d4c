package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("fills defaults", func(t *testing.T) {
		t.Parallel()

		req := Request{Symbol: "NVDA"}
		req.Normalize()

		assert.Equal(t, 1, req.ResearchDepth)
		assert.Equal(t, DefaultAnalysts(), req.SelectedAnalysts)
		assert.Empty(t, req.AnalysisDate, "date resolution happens at execution time")
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		t.Parallel()

		req := Request{
			Symbol:           "AAPL",
			ResearchDepth:    3,
			SelectedAnalysts: []Analyst{AnalystSocial},
		}
		req.Normalize()

		assert.Equal(t, 3, req.ResearchDepth)
		assert.Equal(t, []Analyst{AnalystSocial}, req.SelectedAnalysts)
	})
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	valid := Request{
		Symbol:           "NVDA",
		AnalysisDate:     "2024-06-01",
		ResearchDepth:    2,
		SelectedAnalysts: []Analyst{AnalystMarket, AnalystNews},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"empty symbol", func(r *Request) { r.Symbol = "" }, ErrEmptySymbol},
		{"depth too low", func(r *Request) { r.ResearchDepth = 0 }, ErrInvalidDepth},
		{"depth too high", func(r *Request) { r.ResearchDepth = 4 }, ErrInvalidDepth},
		{"unknown analyst", func(r *Request) { r.SelectedAnalysts = []Analyst{"astrology"} }, ErrUnknownAnalyst},
		{"bad date", func(r *Request) { r.AnalysisDate = "06/01/2024" }, ErrInvalidDate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := valid
			req.SelectedAnalysts = append([]Analyst(nil), valid.SelectedAnalysts...)
			tc.mutate(&req)

			err := req.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestRequestResolveDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC)

	req := Request{Symbol: "NVDA"}
	assert.Equal(t, "2024-06-15", req.ResolveDate(now))

	req.AnalysisDate = "2024-01-02"
	assert.Equal(t, "2024-01-02", req.ResolveDate(now))
}

func TestActionValid(t *testing.T) {
	t.Parallel()

	assert.True(t, ActionBuy.Valid())
	assert.True(t, ActionSell.Valid())
	assert.True(t, ActionHold.Valid())
	assert.False(t, Action("WAIT").Valid())
	assert.False(t, Action("buy").Valid())
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	cat := Catalog()
	require.Len(t, cat, 4)
	for _, a := range []Analyst{AnalystMarket, AnalystSocial, AnalystNews, AnalystFundamentals} {
		info, ok := cat[a]
		require.True(t, ok, "missing analyst %s", a)
		assert.NotEmpty(t, info.Name)
		assert.NotEmpty(t, info.Description)
	}

	// Mutating the returned map must not touch the package catalog.
	cat[AnalystMarket] = AnalystInfo{Name: "changed"}
	assert.NotEqual(t, "changed", Catalog()[AnalystMarket].Name)
}
