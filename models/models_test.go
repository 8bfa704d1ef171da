package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestFreeTextColumnsAreUnbounded(t *testing.T) {
	cases := map[any][]string{
		&Hisaab{}: {"Amount", "Description", "Passcode"},
		&User{}:   {"Username", "Name", "Image"},
	}
	for model, fields := range cases {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)
		for _, name := range fields {
			f := s.LookUpField(name)
			require.NotNil(t, f, name)
			assert.Zero(t, f.Size, "%s.%s", s.Name, name)
			assert.Equal(t, schema.DataType("text"), f.DataType, "%s.%s", s.Name, name)
		}
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "User", (&User{}).DisplayName())
	assert.Equal(t, "Asha", (&User{Name: "Asha"}).DisplayName())
}

func TestFindHisaab(t *testing.T) {
	u := &User{Hisaabs: []Hisaab{{ID: 3, Amount: "1"}, {ID: 9, Amount: "2"}}}
	h, ok := u.FindHisaab(9)
	require.True(t, ok)
	assert.Equal(t, "2", h.Amount)
	_, ok = u.FindHisaab(4)
	assert.False(t, ok)
}
