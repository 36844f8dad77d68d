package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleProduct() Product {
	return Product{
		ExternalID:             "P1",
		Name:                   "Gadget",
		PageURL:                "http://x/p",
		ImageURL:               "http://x/i",
		Description:            "desc",
		BrandExternalID:        "B1",
		CategoryExternalID:     "C1",
		Inactive:               "False",
		ModelNumber:            "M1",
		ManufacturerPartNumber: "MPN1",
		UPC:                    "111",
		EAN:                    "222",
		ProductFamily:          "fam",
		ProductFamilyExpand:    "exp",
	}
}

func TestBrand_Render(t *testing.T) {
	expected := "<Brand>\n" +
		"  <ExternalId>B1</ExternalId>\n" +
		"  <Name>Acme</Name>\n" +
		"</Brand>\n"

	assert.Equal(t, expected, Render(Brand{ExternalID: "B1", Name: "Acme"}, "  "))
}

func TestCategory_Render(t *testing.T) {
	expected := "<Category>\n" +
		"  <ExternalId>C1</ExternalId>\n" +
		"  <Name>Widgets &amp; Co</Name>\n" +
		"</Category>\n"

	assert.Equal(t, expected, Render(Category{ExternalID: "C1", Name: "Widgets & Co"}, "  "))
}

func TestProduct_Render(t *testing.T) {
	expected := `<Product removed="false">
  <ExternalId>P1</ExternalId>
  <Name>Gadget</Name>
  <Description>desc</Description>
  <BrandExternalId>B1</BrandExternalId>
  <CategoryExternalId>C1</CategoryExternalId>
  <ProductPageURL>http://x/p</ProductPageURL>
  <ImageURL>http://x/i</ImageURL>
  <EANs>
    <EAN>222</EAN>
  </EANs>
  <UPCs>
    <UPC>111</UPC>
  </UPCs>
  <Attributes>
    <Attribute id="BV_FE_FAMILY">
      <Value>fam</Value>
    </Attribute>
    <Attribute id="BV_FE_EXPAND">
      <Value>exp</Value>
    </Attribute>
  </Attributes>
</Product>
`

	assert.Equal(t, expected, Render(sampleProduct(), "  "))
}

func TestProduct_Removed(t *testing.T) {
	tests := []struct {
		inactive string
		expected string
	}{
		{"True", "true"},
		{"False", "false"},
		{"TRUE", "true"},
		{"false", "false"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.inactive, func(t *testing.T) {
			p := sampleProduct()
			p.Inactive = tt.inactive
			assert.Equal(t, tt.expected, p.Removed())
			assert.Contains(t, Render(p, "  "), `<Product removed="`+tt.expected+`">`)
		})
	}
}

func TestProduct_CodeSplitting(t *testing.T) {
	tests := []struct {
		name     string
		ean      string
		expected []string
	}{
		{"three codes", "111,222,333", []string{"111", "222", "333"}},
		{"empty field", "", []string{""}},
		{"whitespace kept", "111, 222", []string{"111", " 222"}},
		{"trailing comma", "111,", []string{"111", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProduct()
			p.EAN = tt.ean
			assert.Equal(t, tt.expected, p.EANs())

			out := Render(p, "  ")
			assert.Equal(t, len(tt.expected), strings.Count(out, "<EAN>"))
		})
	}
}

func TestProduct_EmptyEANRendersEmptyChild(t *testing.T) {
	p := sampleProduct()
	p.EAN = ""

	assert.Contains(t, Render(p, "  "), "  <EANs>\n    <EAN></EAN>\n  </EANs>\n")
}

func TestProduct_OmitsModelAndPartNumbers(t *testing.T) {
	out := Render(sampleProduct(), "  ")

	assert.NotContains(t, out, "M1")
	assert.NotContains(t, out, "MPN1")
}

func TestEntity_ID(t *testing.T) {
	entities := []Entity{
		Brand{ExternalID: "B1"},
		Category{ExternalID: "C1"},
		sampleProduct(),
	}

	assert.Equal(t, "B1", entities[0].ID())
	assert.Equal(t, "C1", entities[1].ID())
	assert.Equal(t, "P1", entities[2].ID())
}
