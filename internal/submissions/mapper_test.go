package submissions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knitinfo/knitinfo-backend/pkg/enums"
	"github.com/knitinfo/knitinfo-backend/pkg/types"
)

func TestCompanyFromFormDataCoercesProductShapes(t *testing.T) {
	asString, err := companyFromFormData(types.JSONMap{
		"name": "Mill", "category": "Yarn", "phone": "1",
		"products": "A, B ,C",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, []string(asString.Products))

	// JSON decoding hands lists over as []any.
	asList, err := companyFromFormData(types.JSONMap{
		"name": "Mill", "category": "Yarn", "phone": "1",
		"products": []any{"Collar, Cuff", " Rib "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Collar", "Cuff", "Rib"}, []string(asList.Products))

	missing, err := companyFromFormData(types.JSONMap{
		"name": "Mill", "category": "Yarn", "phone": "1",
	})
	require.NoError(t, err)
	assert.Empty(t, []string(missing.Products))
}

func TestCompanyFromFormDataRequiresNameCategoryPhone(t *testing.T) {
	_, err := companyFromFormData(types.JSONMap{"name": "Mill"})
	require.Error(t, err)

	_, err = companyFromFormData(types.JSONMap{"name": "Mill", "category": "Nonsense", "phone": "1"})
	require.Error(t, err)
}

func TestCompanyFromFormDataTruncatesPhoneAndMapsOptionals(t *testing.T) {
	longPhone := strings.Repeat("8", 70)
	company, err := companyFromFormData(types.JSONMap{
		"name":          "Mill",
		"category":      "knitting",
		"phone":         longPhone,
		"contactPerson": "S. Devi",
		"gst":           "33AAAAA0000A1Z5",
	})
	require.NoError(t, err)

	assert.Len(t, company.Phone, 50)
	assert.Equal(t, enums.CategoryKnitting, company.Category)
	require.NotNil(t, company.ContactPerson)
	assert.Equal(t, "S. Devi", *company.ContactPerson)
	require.NotNil(t, company.GSTNumber)
	assert.Equal(t, "33AAAAA0000A1Z5", *company.GSTNumber)
}
