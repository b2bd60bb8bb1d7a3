package cash

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jhoicas/Inventario-pos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustIndex(t *testing.T, name string) int {
	t.Helper()
	i, ok := Index(name)
	require.True(t, ok, name)
	return i
}

func bd(t *testing.T, counts map[string]int64) Breakdown {
	t.Helper()
	var b Breakdown
	for name, n := range counts {
		b[mustIndex(t, name)] = n
	}
	return b
}

func TestBreakdown_Total(t *testing.T) {
	b := bd(t, map[string]int64{"billete_200": 1, "billete_100": 1, "moneda_0_50": 3})
	assert.Equal(t, int64(31150), b.Total())
	assert.True(t, decimal.RequireFromString("311.50").Equal(b.TotalDecimal()))
}

func TestMerge_AssociativeAndCommutative(t *testing.T) {
	a := bd(t, map[string]int64{"billete_500": 2, "moneda_1": 7})
	b := bd(t, map[string]int64{"billete_500": 1, "billete_20": 4})
	c := bd(t, map[string]int64{"moneda_0_50": 9, "moneda_1": 1})

	ab, err := Merge(a, b)
	require.NoError(t, err)
	left, err := Merge(ab, c)
	require.NoError(t, err)

	bc, err := Merge(b, c)
	require.NoError(t, err)
	right, err := Merge(a, bc)
	require.NoError(t, err)

	assert.Equal(t, left, right)

	ba, err := Merge(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.Equal(t, a.Total()+b.Total()+c.Total(), left.Total())
}

func TestMerge_Overflow(t *testing.T) {
	var a, b Breakdown
	a[0] = 1<<62 + 1<<61
	b[0] = 1 << 62
	_, err := Merge(a, b)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate_RejectsHugeCounts(t *testing.T) {
	huge := bd(t, map[string]int64{"billete_1000": 184467440737096})
	assert.ErrorIs(t, huge.Validate(), domain.ErrInvalidInput)

	limit := bd(t, map[string]int64{"billete_1000": MaxPieces, "moneda_0_50": MaxPieces})
	require.NoError(t, limit.Validate())
	assert.Equal(t, MaxPieces*100000+MaxPieces*50, limit.Total())
}

func TestMerge_CapsAtMaxPieces(t *testing.T) {
	a := bd(t, map[string]int64{"billete_500": MaxPieces})
	b := bd(t, map[string]int64{"billete_500": 1})
	_, err := Merge(a, b)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := Merge(a, Breakdown{})
	require.NoError(t, err)
	assert.Equal(t, a, out)
}

func TestSubtract_NeverNegative(t *testing.T) {
	a := bd(t, map[string]int64{"billete_100": 1})
	b := bd(t, map[string]int64{"billete_100": 2})

	_, err := Subtract(a, b)
	assert.ErrorIs(t, err, domain.ErrRegisterNegative)

	out, err := Subtract(b, a)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out[mustIndex(t, "billete_100")])
}

func TestMakeChange_PosScenario(t *testing.T) {
	// Venta de 237.50 pagada con 200 + 100.
	register := bd(t, map[string]int64{"billete_50": 1, "moneda_10": 2, "moneda_2": 1, "moneda_0_50": 1})
	tendered := bd(t, map[string]int64{"billete_200": 1, "billete_100": 1})
	merged, err := Merge(register, tendered)
	require.NoError(t, err)

	due, err := CentsFromDecimal(decimal.RequireFromString("62.50"))
	require.NoError(t, err)

	change, err := MakeChange(due, merged)
	require.NoError(t, err)
	assert.Equal(t, due, change.Total())
	assert.Equal(t, bd(t, map[string]int64{"billete_50": 1, "moneda_10": 1, "moneda_2": 1, "moneda_0_50": 1}), change)

	after, err := Subtract(merged, change)
	require.NoError(t, err)
	assert.Equal(t, register.Total()+tendered.Total()-due, after.Total())
}

func TestMakeChange_CannotMakeChange(t *testing.T) {
	// Sin monedas de 0.50 no hay forma de dar 62.50.
	available := bd(t, map[string]int64{"billete_200": 1, "billete_100": 1, "billete_50": 1, "moneda_10": 1, "moneda_2": 1})

	change, err := MakeChange(6250, available)
	assert.True(t, errors.Is(err, domain.ErrCannotMakeChange))
	assert.True(t, change.IsZero())
}

func TestMakeChange_GreedyDoesNotBacktrack(t *testing.T) {
	available := bd(t, map[string]int64{"billete_50": 1, "billete_20": 3})

	_, err := MakeChange(6000, available)
	assert.ErrorIs(t, err, domain.ErrCannotMakeChange)
}

func TestMakeChange_TotalNeverExceedsAmount(t *testing.T) {
	available := bd(t, map[string]int64{"billete_500": 3, "billete_100": 5, "billete_20": 10, "moneda_5": 4, "moneda_1": 10, "moneda_0_50": 6})
	for amount := int64(0); amount <= 200000; amount += 50 {
		change, err := MakeChange(amount, available)
		assert.LessOrEqual(t, change.Total(), amount)
		if err == nil {
			assert.Equal(t, amount, change.Total())
			_, subErr := Subtract(available, change)
			assert.NoError(t, subErr)
		}
	}
}

func TestMakeChange_Zero(t *testing.T) {
	change, err := MakeChange(0, Breakdown{})
	require.NoError(t, err)
	assert.True(t, change.IsZero())
}

func TestCentsFromDecimal(t *testing.T) {
	c, err := CentsFromDecimal(decimal.RequireFromString("237.5"))
	require.NoError(t, err)
	assert.Equal(t, int64(23750), c)

	_, err = CentsFromDecimal(decimal.RequireFromString("1.005"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBreakdown_JSON(t *testing.T) {
	b := bd(t, map[string]int64{"billete_20": 2, "moneda_0_50": 1})
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var generic map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Len(t, generic, len(Denominations))
	assert.EqualValues(t, 2, generic["billete_20"]["count"])
	assert.Equal(t, "40", generic["billete_20"]["total"])

	var partial Breakdown
	require.NoError(t, json.Unmarshal([]byte(`{"moneda_5":{"count":3}}`), &partial))
	assert.Equal(t, int64(1500), partial.Total())

	err = json.Unmarshal([]byte(`{"billete_7":{"count":1}}`), &partial)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
