// =============================================================================
// Catalog Feed Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic: it turns a Grid into the
// catalog feed document.
//
// CONVERSION STEPS:
//   1. Index the header row and check every required column is present
//   2. Write the prologue (XML declaration and <ExtractDate>)
//   3. For every data row, in order:
//      a. Check the row is at least as wide as the header
//      b. Apply configured cell transformations
//      c. Emit the Brand, then the Category, then the Product, each only the
//         first time its ExternalId is seen
//   4. Return the document
//
// Every row yields all three entity kinds; a product row whose brand never
// appears on its own still emits that brand when its id is first seen.
//
// Any failure aborts the conversion and no document is returned.
//
// =============================================================================

package converter

import (
	"log/slog"
	"time"

	"github.com/ginjaninja78/catalog-feed/internal/catalog"
	"github.com/ginjaninja78/catalog-feed/internal/config"
	"github.com/ginjaninja78/catalog-feed/internal/types"
	"github.com/ginjaninja78/catalog-feed/internal/validation"
	"github.com/ginjaninja78/catalog-feed/internal/xmlwriter"
)

// Column names of the input header row.
const (
	ColBrandID                = "BrandID"
	ColBrand                  = "Brand"
	ColCategoryID             = "CategoryID"
	ColCategory               = "Category"
	ColProductID              = "ProductID"
	ColProductName            = "ProductName"
	ColProductPageURL         = "ProductPageURL"
	ColProductImageURL        = "ProductImageURL"
	ColProductDescription     = "ProductDescription"
	ColInactive               = "Inactive"
	ColModelNumber            = "ModelNumber"
	ColManufacturerPartNumber = "ManufacturerPartNumber"
	ColUPC                    = "UPC"
	ColEAN                    = "EAN"
	ColProductFamily          = "ProductFamily"
	ColProductFamilyExpand    = "ProductFamily-Expand"
)

// RequiredColumns must all appear in the header row.
var RequiredColumns = []string{
	ColBrandID,
	ColBrand,
	ColCategoryID,
	ColCategory,
	ColProductID,
	ColProductName,
	ColProductPageURL,
	ColProductImageURL,
	ColProductDescription,
	ColInactive,
	ColModelNumber,
	ColManufacturerPartNumber,
	ColUPC,
	ColEAN,
	ColProductFamily,
	ColProductFamilyExpand,
}

// MultiValueColumns hold comma-separated codes.
var MultiValueColumns = []string{ColUPC, ColEAN}

// BooleanColumns hold true/false values.
var BooleanColumns = []string{ColInactive}

// ExtractDateLayout formats the <ExtractDate> value.
const ExtractDateLayout = "2006-01-02"

// =============================================================================
// STATISTICS
// =============================================================================

// Stats contains statistics about a conversion.
type Stats struct {
	// RowsProcessed is the number of data rows read.
	RowsProcessed int

	// Brands, Categories and Products count the emitted elements.
	Brands     int
	Categories int
	Products   int

	// Warnings is the number of soft value problems logged.
	Warnings int
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Logger is the logging interface used by the converter. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Converter turns grids into feed documents. It holds no per-conversion
// state and may be reused.
type Converter struct {
	options     xmlwriter.GenerateOptions
	transformer *Transformer
	logger      Logger
	now         func() time.Time
}

// New creates a Converter from the application configuration.
func New(cfg *config.MainConfig) *Converter {
	options := xmlwriter.DefaultGenerateOptions()
	options.Indent = cfg.XML.Indent
	options.RootElement = cfg.XML.RootElement

	return &Converter{
		options:     options,
		transformer: NewTransformer(cfg.TransformationRules, MultiValueColumns),
		logger:      slog.Default(),
		now:         time.Now,
	}
}

// SetLogger replaces the logger.
func (c *Converter) SetLogger(logger Logger) {
	c.logger = logger
}

// SetClock replaces the source of the extract date.
func (c *Converter) SetClock(now func() time.Time) {
	c.now = now
}

// =============================================================================
// CONVERSION
// =============================================================================

// Convert builds the feed document for grid.
//
// RETURNS:
//   - The complete XML document.
//   - A *validation.ValidationError wrapping ErrMissingColumn or ErrRowShape,
//     or a transformation error. No document is returned on error.
func (c *Converter) Convert(grid types.Grid) (string, error) {
	doc, _, err := c.ConvertWithStats(grid)
	return doc, err
}

// ConvertWithStats is Convert that also reports what was emitted.
func (c *Converter) ConvertWithStats(grid types.Grid) (string, Stats, error) {
	var stats Stats

	header := grid.Header()
	columns, err := validation.IndexColumns(header, RequiredColumns)
	if err != nil {
		return "", stats, err
	}

	doc := xmlwriter.NewDocument(c.options)
	doc.Append(xmlwriter.Leaf("ExtractDate", c.now().Format(ExtractDateLayout)))

	seenBrands := make(map[string]struct{})
	seenCategories := make(map[string]struct{})
	seenProducts := make(map[string]struct{})

	for i, row := range grid.DataRows() {
		if err := validation.CheckRowShape(row, len(header), i); err != nil {
			return "", stats, err
		}

		row, err = c.transformer.TransformRow(row, columns)
		if err != nil {
			return "", stats, err
		}
		stats.RowsProcessed++

		r := record{row: row, columns: columns}

		brand := r.brand()
		if _, seen := seenBrands[brand.ID()]; !seen {
			seenBrands[brand.ID()] = struct{}{}
			doc.Append(brand.Element())
			stats.Brands++
		}

		category := r.category()
		if _, seen := seenCategories[category.ID()]; !seen {
			seenCategories[category.ID()] = struct{}{}
			doc.Append(category.Element())
			stats.Categories++
		}

		product := r.product()
		if _, seen := seenProducts[product.ID()]; !seen {
			seenProducts[product.ID()] = struct{}{}
			doc.Append(product.Element())
			stats.Products++

			if warning := validation.CheckBoolean(ColInactive, product.Inactive, i); warning != nil {
				stats.Warnings++
				c.logger.Warn("unexpected value",
					"row", warning.Row,
					"field", warning.Field,
					"value", warning.Value,
					"product", product.ExternalID)
			}
		}
	}

	c.logger.Debug("converted grid",
		"rows", stats.RowsProcessed,
		"brands", stats.Brands,
		"categories", stats.Categories,
		"products", stats.Products)

	return doc.String(), stats, nil
}

// =============================================================================
// ROW ACCESS
// =============================================================================

// record reads cells of one data row by column name. The row is at least as
// wide as the header, so every indexed column is present.
type record struct {
	row     []string
	columns validation.ColumnIndex
}

func (r record) get(name string) string {
	return r.row[r.columns[name]]
}

func (r record) brand() catalog.Brand {
	return catalog.Brand{
		ExternalID: r.get(ColBrandID),
		Name:       r.get(ColBrand),
	}
}

func (r record) category() catalog.Category {
	return catalog.Category{
		ExternalID: r.get(ColCategoryID),
		Name:       r.get(ColCategory),
	}
}

func (r record) product() catalog.Product {
	return catalog.Product{
		ExternalID:             r.get(ColProductID),
		Name:                   r.get(ColProductName),
		PageURL:                r.get(ColProductPageURL),
		ImageURL:               r.get(ColProductImageURL),
		Description:            r.get(ColProductDescription),
		BrandExternalID:        r.get(ColBrandID),
		CategoryExternalID:     r.get(ColCategoryID),
		Inactive:               r.get(ColInactive),
		ModelNumber:            r.get(ColModelNumber),
		ManufacturerPartNumber: r.get(ColManufacturerPartNumber),
		UPC:                    r.get(ColUPC),
		EAN:                    r.get(ColEAN),
		ProductFamily:          r.get(ColProductFamily),
		ProductFamilyExpand:    r.get(ColProductFamilyExpand),
	}
}
