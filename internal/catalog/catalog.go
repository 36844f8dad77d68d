// =============================================================================
// Catalog Feed Converter - Catalog Entities
// =============================================================================
//
// Brand, Category and Product are the three entity kinds of the feed. Each
// builds its own xmlwriter.Element; escaping and indentation are left to
// the xmlwriter package.
//
// =============================================================================

package catalog

import (
	"strings"

	"github.com/ginjaninja78/catalog-feed/internal/xmlwriter"
)

// Attribute ids of the product family values.
const (
	FamilyAttributeID = "BV_FE_FAMILY"
	ExpandAttributeID = "BV_FE_EXPAND"
)

// CodeSeparator splits the multi-valued EAN and UPC fields.
const CodeSeparator = ","

// Entity is implemented by every feed entity.
type Entity interface {
	ID() string
	Element() xmlwriter.Element
}

// =============================================================================
// BRAND
// =============================================================================

// Brand is identified by its ExternalId.
type Brand struct {
	ExternalID string
	Name       string
}

func (b Brand) ID() string { return b.ExternalID }

// Element builds <Brand><ExternalId/><Name/></Brand>.
func (b Brand) Element() xmlwriter.Element {
	return xmlwriter.NewElement("Brand",
		xmlwriter.Leaf("ExternalId", b.ExternalID),
		xmlwriter.Leaf("Name", b.Name),
	)
}

// =============================================================================
// CATEGORY
// =============================================================================

// Category is identified by its ExternalId.
type Category struct {
	ExternalID string
	Name       string
}

func (c Category) ID() string { return c.ExternalID }

// Element builds <Category><ExternalId/><Name/></Category>.
func (c Category) Element() xmlwriter.Element {
	return xmlwriter.NewElement("Category",
		xmlwriter.Leaf("ExternalId", c.ExternalID),
		xmlwriter.Leaf("Name", c.Name),
	)
}

// =============================================================================
// PRODUCT
// =============================================================================

// Product is identified by its ExternalId. BrandExternalID and
// CategoryExternalID reference a Brand and a Category by id only.
//
// ModelNumber and ManufacturerPartNumber are read from the input but are
// not part of the feed element.
type Product struct {
	ExternalID             string
	Name                   string
	PageURL                string
	ImageURL               string
	Description            string
	BrandExternalID        string
	CategoryExternalID     string
	Inactive               string
	ModelNumber            string
	ManufacturerPartNumber string
	UPC                    string
	EAN                    string
	ProductFamily          string
	ProductFamilyExpand    string
}

func (p Product) ID() string { return p.ExternalID }

// Removed is the value of the removed attribute: Inactive in lower case.
func (p Product) Removed() string {
	return strings.ToLower(p.Inactive)
}

// EANs returns the comma-separated EAN codes. Tokens are not trimmed and an
// empty field yields a single empty code.
func (p Product) EANs() []string {
	return strings.Split(p.EAN, CodeSeparator)
}

// UPCs is the UPC counterpart of EANs.
func (p Product) UPCs() []string {
	return strings.Split(p.UPC, CodeSeparator)
}

// Element builds the <Product removed="..."> element. Child order is fixed.
func (p Product) Element() xmlwriter.Element {
	return xmlwriter.NewElement("Product",
		xmlwriter.Leaf("ExternalId", p.ExternalID),
		xmlwriter.Leaf("Name", p.Name),
		xmlwriter.Leaf("Description", p.Description),
		xmlwriter.Leaf("BrandExternalId", p.BrandExternalID),
		xmlwriter.Leaf("CategoryExternalId", p.CategoryExternalID),
		xmlwriter.Leaf("ProductPageURL", p.PageURL),
		xmlwriter.Leaf("ImageURL", p.ImageURL),
		codeList("EANs", "EAN", p.EANs()),
		codeList("UPCs", "UPC", p.UPCs()),
		xmlwriter.NewElement("Attributes",
			attribute(FamilyAttributeID, p.ProductFamily),
			attribute(ExpandAttributeID, p.ProductFamilyExpand),
		),
	).WithAttr("removed", p.Removed())
}

func codeList(listName, itemName string, codes []string) xmlwriter.Element {
	items := make([]xmlwriter.Element, len(codes))
	for i, code := range codes {
		items[i] = xmlwriter.Leaf(itemName, code)
	}
	return xmlwriter.NewElement(listName, items...)
}

func attribute(id, value string) xmlwriter.Element {
	return xmlwriter.NewElement("Attribute",
		xmlwriter.Leaf("Value", value),
	).WithAttr("id", id)
}

// Render serializes any entity as a standalone fragment.
func Render(e Entity, indent string) string {
	return xmlwriter.Render(e.Element(), indent)
}
