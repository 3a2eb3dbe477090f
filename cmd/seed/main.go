package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ovenlab/bakehouse-backend/config"
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Seeds the database with a starter bakery catalog and content. With an
// xlsx path argument, imports products from the sheet instead (same column
// layout as the admin product export).
//
//	go run cmd/seed/main.go            # built-in catalog
//	go run cmd/seed/main.go data.xlsx  # import from spreadsheet
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed baseline content:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	var products []model.Product
	if len(os.Args) > 1 {
		filePath := os.Args[1]
		fmt.Printf("Reading XLSX file: %s\n", filePath)
		products, err = readProductsFromXLSX(filePath)
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}
	} else {
		products = starterCatalog()
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := productRepo.BulkCreate(products, 100); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

// starterCatalog is a small bakery assortment for local development.
func starterCatalog() []model.Product {
	return []model.Product{
		{
			Name: "Sourdough Loaf", Slug: "sourdough-loaf", Category: model.CategoryBread,
			Description: "Naturally leavened, 48h fermentation.", Price: 6.50,
			StockQuantity: 20, IsActive: true,
			Variants: []model.ProductVariant{
				{Name: "Half", PriceDelta: -2.50, StockQuantity: 10},
				{Name: "Whole", PriceDelta: 0, StockQuantity: 20},
			},
		},
		{
			Name: "Baguette", Slug: "baguette", Category: model.CategoryBread,
			Description: "Classic French baguette, baked twice daily.", Price: 4.00,
			StockQuantity: 40, IsActive: true,
		},
		{
			Name: "Butter Croissant", Slug: "butter-croissant", Category: model.CategoryPastry,
			Description: "Laminated with cultured butter.", Price: 3.20,
			StockQuantity: 30, IsActive: true,
		},
		{
			Name: "Almond Croissant", Slug: "almond-croissant", Category: model.CategoryPastry,
			Description: "Twice-baked with almond cream.", Price: 4.20,
			StockQuantity: 18, IsActive: true,
		},
		{
			Name: "Carrot Cake", Slug: "carrot-cake", Category: model.CategoryCake,
			Description: "Cream cheese frosting, walnuts.", Price: 28.00,
			StockQuantity: 6, IsActive: true,
			Variants: []model.ProductVariant{
				{Name: "6 inch", PriceDelta: 0, StockQuantity: 6},
				{Name: "8 inch", PriceDelta: 12.00, StockQuantity: 4},
			},
		},
		{
			Name: "Chocolate Chip Cookie", Slug: "chocolate-chip-cookie", Category: model.CategoryCookie,
			Description: "Dark chocolate, sea salt.", Price: 2.50,
			StockQuantity: 50, IsActive: true,
		},
		{
			Name: "Ham & Gruyere Sandwich", Slug: "ham-gruyere-sandwich", Category: model.CategorySandwich,
			Description: "On house baguette with dijon butter.", Price: 8.50,
			StockQuantity: 12, IsActive: true,
		},
		{
			Name: "Cold Brew Coffee", Slug: "cold-brew-coffee", Category: model.CategoryDrink,
			Description: "Steeped 18 hours.", Price: 4.50,
			StockQuantity: 24, IsActive: true,
		},
	}
}

// readProductsFromXLSX parses the export column layout:
// ID, Name, Slug, Category, Price, Stock, Active, Sales, Variant, Variant Price Delta.
// Consecutive rows with the same slug fold into one product with variants.
func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	bySlug := make(map[string]int)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) < 6 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[1])
		slug := strings.TrimSpace(row[2])
		category := strings.TrimSpace(row[3])
		priceStr := strings.TrimSpace(row[4])
		stockStr := strings.TrimSpace(row[5])

		if name == "" || !isValidProductName(name) {
			skippedCount++
			continue
		}
		if slug == "" {
			slug = generateSlug(name)
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			skippedCount++
			continue
		}
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			stock = 0
		}

		active := true
		if len(row) > 6 {
			if v := strings.ToLower(strings.TrimSpace(row[6])); v == "false" || v == "0" || v == "no" {
				active = false
			}
		}

		var variant *model.ProductVariant
		if len(row) > 8 && strings.TrimSpace(row[8]) != "" {
			delta := 0.0
			if len(row) > 9 {
				delta, _ = strconv.ParseFloat(strings.TrimSpace(row[9]), 64)
			}
			variant = &model.ProductVariant{
				Name:          strings.TrimSpace(row[8]),
				PriceDelta:    delta,
				StockQuantity: stock,
			}
		}

		if idx, exists := bySlug[slug]; exists {
			// Another variant row of an already-seen product.
			if variant != nil {
				products[idx].Variants = append(products[idx].Variants, *variant)
			}
			continue
		}

		product := model.Product{
			Name:          name,
			Slug:          slug,
			Category:      model.ProductCategory(category),
			Price:         price,
			StockQuantity: stock,
			IsActive:      active,
		}
		if variant != nil {
			product.Variants = append(product.Variants, *variant)
		}

		bySlug[slug] = len(products)
		products = append(products, product)

		if len(products)%100 == 0 {
			fmt.Printf("Processed %d products...\n", len(products))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return products, nil
}

// generateSlug builds a URL slug from the product name.
func generateSlug(name string) string {
	slug := strings.ToLower(name)

	reg := regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slug = reg.ReplaceAllString(slug, "-")

	reg = regexp.MustCompile(`-+`)
	slug = reg.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

// isValidProductName filters junk rows out of imported sheets.
func isValidProductName(name string) bool {
	if len([]rune(name)) < 2 {
		return false
	}

	numOnlyReg := regexp.MustCompile(`^[0-9]+$`)
	if numOnlyReg.MatchString(name) {
		return false
	}

	specialOnlyReg := regexp.MustCompile(`^[\p{P}\p{S}\s]+$`)
	return !specialOnlyReg.MatchString(name)
}
