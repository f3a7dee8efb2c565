package responses

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeList_Paginated(t *testing.T) {
	body := `{"data":[{"id":1,"name":"A"},{"id":2,"name":"B"}],"current_page":2,"last_page":4,"per_page":"2","total":8}`

	l, err := DecodeList[Category]([]byte(body))

	require.NoError(t, err)
	assert.Equal(t, ShapePaginated, l.Shape)
	require.Len(t, l.Items, 2)
	assert.Equal(t, "B", l.Items[1].Name)
	require.NotNil(t, l.Page)
	assert.Equal(t, Page{CurrentPage: 2, LastPage: 4, PerPage: 2, Total: 8}, *l.Page)
}

func TestDecodeList_DataWithoutPaginator(t *testing.T) {
	l, err := DecodeList[Category]([]byte(`{"data":[{"id":3}]}`))

	require.NoError(t, err)
	assert.Equal(t, ShapePaginated, l.Shape)
	assert.Nil(t, l.Page)
	assert.Len(t, l.Items, 1)
}

func TestDecodeList_BareArray(t *testing.T) {
	l, err := DecodeList[Item]([]byte(` [{"id":1,"price":"9.90","category_id":"4"}] `))

	require.NoError(t, err)
	assert.Equal(t, ShapeArray, l.Shape)
	assert.Nil(t, l.Page)
	require.Len(t, l.Items, 1)
	assert.Equal(t, FlexInt(4), l.Items[0].CategoryID)
	assert.Equal(t, "9.9", l.Items[0].Price.Decimal.String())
}

func TestDecodeList_Nested(t *testing.T) {
	t.Run("items array on the parent", func(t *testing.T) {
		body := `{"id":7,"name":"Cat","items":[{"id":1},{"id":2},{"id":3}]}`

		l, err := DecodeList[Item]([]byte(body), "items")

		require.NoError(t, err)
		assert.Equal(t, ShapeNested, l.Shape)
		assert.Len(t, l.Items, 3)
		assert.Nil(t, l.Page)
	})

	t.Run("paginated items inside a data envelope", func(t *testing.T) {
		body := `{"data":{"id":7,"items":{"data":[{"id":1}],"current_page":1,"last_page":2,"per_page":1,"total":2}}}`

		l, err := DecodeList[Item]([]byte(body), "items")

		require.NoError(t, err)
		assert.Equal(t, ShapeNested, l.Shape)
		require.NotNil(t, l.Page)
		assert.Equal(t, FlexInt(2), l.Page.LastPage)
	})
}

func TestDecodeList_UnknownShape(t *testing.T) {
	for _, body := range []string{``, `"x"`, `{"message":"ok"}`, `{"id":7,"name":"Cat"}`} {
		_, err := DecodeList[Item]([]byte(body), "items")
		assert.ErrorIs(t, err, ErrUnknownShape, "body %q", body)
	}
}

func TestCode_Unmarshal(t *testing.T) {
	var r APIResponse[CategoryCreated]

	require.NoError(t, json.Unmarshal([]byte(`{"code":0,"data":{"id":5}}`), &r))
	assert.True(t, r.Code.OK())
	assert.Equal(t, 5, r.Data.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"code":"E42","message":"dup"}`), &r))
	assert.False(t, r.Code.OK())
	assert.Equal(t, Code("E42"), r.Code)

	var missing APIResponse[CategoryCreated]
	require.NoError(t, json.Unmarshal([]byte(`{"message":"?"}`), &missing))
	assert.False(t, missing.Code.OK())
}
