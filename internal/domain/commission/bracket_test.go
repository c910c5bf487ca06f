package commission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testBrackets() []Bracket {
	return []Bracket{
		{Min: dec("100"), Max: dec("500"), Fixed: dec("100")},
		{Min: dec("501"), Max: dec("750"), Fixed: dec("200")},
	}
}

func TestCompute_InclusiveBounds(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		payout  string
		matched bool
	}{
		{"lower bound of first bracket", "100", "100", true},
		{"upper bound of first bracket", "500", "100", true},
		{"lower bound of second bracket", "501", "200", true},
		{"upper bound of second bracket", "750", "200", true},
		{"inside first bracket", "300", "100", true},
		{"gap between brackets", "500.5", "0", false},
		{"below lowest min", "99.99", "0", false},
		{"above highest max", "750.01", "0", false},
		{"zero amount", "0", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compute(testBrackets(), dec(tt.amount))
			assert.True(t, res.Amount.Equal(dec(tt.payout)), "payout: got %s want %s", res.Amount, tt.payout)
			assert.Equal(t, tt.matched, res.Matched)
		})
	}
}

func TestCompute_FirstMatchWinsOnOverlap(t *testing.T) {
	overlapping := []Bracket{
		{Min: dec("0"), Max: dec("1000"), Fixed: dec("50")},
		{Min: dec("500"), Max: dec("2000"), Fixed: dec("150")},
	}

	res := Compute(overlapping, dec("600"))
	assert.True(t, res.Amount.Equal(dec("50")))
	assert.True(t, res.BracketMin.Equal(dec("0")))
	assert.True(t, res.BracketMax.Equal(dec("1000")))
}

func TestCompute_EmptyBrackets(t *testing.T) {
	res := Compute(nil, dec("1000"))
	assert.True(t, res.Amount.IsZero())
	assert.False(t, res.Matched)
}

func TestParseBrackets_CanonicalKeys(t *testing.T) {
	raw := []byte(`[{"min":100,"max":500,"fixed":100},{"min":501,"max":750,"fixed":200}]`)

	brackets, err := ParseBrackets(raw)
	require.NoError(t, err)
	require.Len(t, brackets, 2)
	assert.True(t, brackets[0].Min.Equal(dec("100")))
	assert.True(t, brackets[1].Fixed.Equal(dec("200")))
}

func TestParseBrackets_LegacyKeys(t *testing.T) {
	raw := []byte(`[{"from":100,"to":500,"amount":100},{"from":501,"to":750,"amount":200}]`)

	brackets, err := ParseBrackets(raw)
	require.NoError(t, err)
	require.Len(t, brackets, 2)
	assert.True(t, brackets[0].Fixed.Equal(dec("100")))
	assert.True(t, brackets[1].Min.Equal(dec("501")))
}

func TestParseBrackets_ThousandsSeparators(t *testing.T) {
	raw := []byte(`[{"min":"1,000","max":"5,000","fixed":"1,500"}]`)

	brackets, err := ParseBrackets(raw)
	require.NoError(t, err)
	require.Len(t, brackets, 1)
	assert.True(t, brackets[0].Min.Equal(dec("1000")))
	assert.True(t, brackets[0].Max.Equal(dec("5000")))
	assert.True(t, brackets[0].Fixed.Equal(dec("1500")))
}

func TestParseBrackets_DiscardsJunkEntries(t *testing.T) {
	raw := []byte(`[
		{"min":"Infinity","max":500,"fixed":10},
		{"min":100,"fixed":10},
		{"min":100,"max":"NaN","fixed":10},
		{"min":600,"max":900,"fixed":40}
	]`)

	brackets, err := ParseBrackets(raw)
	require.NoError(t, err)
	require.Len(t, brackets, 1)
	assert.True(t, brackets[0].Min.Equal(dec("600")))
}

func TestParseBrackets_SortsAscendingByMin(t *testing.T) {
	raw := []byte(`[{"min":501,"max":750,"fixed":200},{"min":100,"max":500,"fixed":100}]`)

	brackets, err := ParseBrackets(raw)
	require.NoError(t, err)
	require.Len(t, brackets, 2)
	assert.True(t, brackets[0].Min.Equal(dec("100")))
	assert.True(t, brackets[1].Min.Equal(dec("501")))
}

func TestParseBrackets_EmptyInput(t *testing.T) {
	brackets, err := ParseBrackets(nil)
	require.NoError(t, err)
	assert.Empty(t, brackets)

	brackets, err = ParseBrackets([]byte("  "))
	require.NoError(t, err)
	assert.Empty(t, brackets)
}

func TestParseBrackets_MalformedJSON(t *testing.T) {
	_, err := ParseBrackets([]byte(`{"min":`))
	assert.Error(t, err)
}
