package argos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntConverter(t *testing.T) {
	conv := Int()

	v, err := conv("42")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = conv("+7")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = conv("-7")
	require.NoError(t, err)
	assert.Equal(t, -7, v)

	_, err = conv("0x1A")
	assert.Error(t, err, "hex must be rejected")

	_, err = conv("1e10")
	assert.Error(t, err, "scientific notation must be rejected for int")

	_, err = conv("abc")
	assert.Error(t, err)
}

func TestFloatConverter(t *testing.T) {
	conv := Float()

	v, err := conv("1e10")
	require.NoError(t, err, "scientific notation is accepted for float")
	assert.Equal(t, 1e10, v)

	v, err = conv("Infinity")
	require.NoError(t, err)
	assert.True(t, v.(float64) > 0)

	_, err = conv("1.2.3")
	assert.Error(t, err, "multiple decimal points must be rejected")
}

func TestBoolConverter(t *testing.T) {
	conv := Bool()
	for _, raw := range []string{"true", "TRUE", "True", "1", "yes", "YES", "on"} {
		v, err := conv(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, true, v, raw)
	}
	for _, raw := range []string{"false", "0", "no", "off"} {
		v, err := conv(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, false, v, raw)
	}
	_, err := conv("maybe")
	assert.Error(t, err)
}

func TestOneOfConverter(t *testing.T) {
	conv := OneOf("red", "green", "blue")
	v, err := conv("green")
	require.NoError(t, err)
	assert.Equal(t, "green", v)

	_, err = conv("purple")
	assert.Error(t, err)
}

func TestMapConverter(t *testing.T) {
	conv := Map(func(raw string) (interface{}, bool, error) {
		if raw == "fail" {
			return nil, false, errors.New("boom")
		}
		if raw == "reject" {
			return nil, false, nil
		}
		return len(raw), true, nil
	})

	v, err := conv("hello")
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	_, err = conv("fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fail")

	_, err = conv("reject")
	require.Error(t, err)
}

func TestIsStringLike(t *testing.T) {
	assert.True(t, isStringLike(String()))
	assert.False(t, isStringLike(Int()))
	assert.False(t, isStringLike(nil))
}
