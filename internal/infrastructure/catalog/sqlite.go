package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/recipecost/backend/internal/domain"
)

// SQLiteCatalog stores products and recipes in a SQLite database
type SQLiteCatalog struct {
	db      *sql.DB
	matcher *Matcher
}

// OpenSQLite opens (or creates) the database at dsn and ensures the schema
func OpenSQLite(dsn string, matcher *Matcher) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writes
	db.SetMaxOpenConns(1)

	if matcher == nil {
		matcher = NewMatcher(MatcherConfig{})
	}
	c := &SQLiteCatalog{db: db, matcher: matcher}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the database handle
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

func (c *SQLiteCatalog) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			normalized_name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS nutrient_facts (
			product_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			nutrient_name TEXT NOT NULL,
			amount REAL NOT NULL,
			amount_unit TEXT NOT NULL,
			amount_type TEXT NOT NULL,
			per_amount REAL NOT NULL,
			per_unit TEXT NOT NULL,
			per_type TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS supplier_products (
			product_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			supplier_name TEXT NOT NULL,
			supplier_product_name TEXT NOT NULL,
			price REAL NOT NULL,
			uom_amount REAL NOT NULL,
			uom_name TEXT NOT NULL,
			uom_type TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		);`,
		`CREATE TABLE IF NOT EXISTS line_items (
			recipe_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			ingredient_name TEXT NOT NULL,
			uom_amount REAL NOT NULL,
			uom_name TEXT NOT NULL,
			uom_type TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_products_normalized_name ON products (normalized_name);`,
		`CREATE INDEX IF NOT EXISTS idx_nutrient_facts_product ON nutrient_facts (product_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_supplier_products_product ON supplier_products (product_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_line_items_recipe ON line_items (recipe_id, position);`,
	}
	for _, q := range queries {
		if _, err := c.db.Exec(q); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Import replaces the stored catalog with the dataset in one transaction
func (c *SQLiteCatalog) Import(ctx context.Context, dataset *Dataset) error {
	if err := dataset.Validate(); err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"nutrient_facts", "supplier_products", "products", "line_items", "recipes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, product := range dataset.Products {
		if err := insertProduct(ctx, tx, product); err != nil {
			return err
		}
	}
	for _, recipe := range dataset.Recipes {
		if err := insertRecipe(ctx, tx, recipe); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

func insertProduct(ctx context.Context, tx *sql.Tx, product domain.Product) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO products (name, normalized_name) VALUES (?, ?)`,
		product.ProductName, NormalizeName(product.ProductName))
	if err != nil {
		return fmt.Errorf("failed to insert product %q: %w", product.ProductName, err)
	}
	productID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, fact := range product.NutrientFacts {
		_, err := tx.ExecContext(ctx, `INSERT INTO nutrient_facts (product_id, position, nutrient_name, amount, amount_unit, amount_type, per_amount, per_unit, per_type) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			productID, i, fact.NutrientName,
			fact.QuantityAmount.Amount, string(fact.QuantityAmount.Name), string(fact.QuantityAmount.Type),
			fact.QuantityPer.Amount, string(fact.QuantityPer.Name), string(fact.QuantityPer.Type))
		if err != nil {
			return fmt.Errorf("failed to insert nutrient %q of %q: %w", fact.NutrientName, product.ProductName, err)
		}
	}

	for i, offer := range product.SupplierProducts {
		uom := offer.SupplierProductUoM
		_, err := tx.ExecContext(ctx, `INSERT INTO supplier_products (product_id, position, supplier_name, supplier_product_name, price, uom_amount, uom_name, uom_type) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			productID, i, offer.SupplierName, offer.SupplierProductName, offer.SupplierPrice,
			uom.Amount, string(uom.Name), string(uom.Type))
		if err != nil {
			return fmt.Errorf("failed to insert offer %q of %q: %w", offer.SupplierName, product.ProductName, err)
		}
	}
	return nil
}

func insertRecipe(ctx context.Context, tx *sql.Tx, recipe domain.Recipe) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO recipes (name) VALUES (?)`, recipe.RecipeName)
	if err != nil {
		return fmt.Errorf("failed to insert recipe %q: %w", recipe.RecipeName, err)
	}
	recipeID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, item := range recipe.LineItems {
		uom := item.UnitOfMeasure
		_, err := tx.ExecContext(ctx, `INSERT INTO line_items (recipe_id, position, ingredient_name, uom_amount, uom_name, uom_type) VALUES (?, ?, ?, ?, ?, ?)`,
			recipeID, i, item.Ingredient.IngredientName, uom.Amount, string(uom.Name), string(uom.Type))
		if err != nil {
			return fmt.Errorf("failed to insert line %d of %q: %w", i+1, recipe.RecipeName, err)
		}
	}
	return nil
}

// ProductsForIngredient returns the stored products matching an ingredient name.
// Products whose normalized name equals the ingredient's are looked up on the
// indexed column; otherwise every product goes through the matcher.
func (c *SQLiteCatalog) ProductsForIngredient(ctx context.Context, ingredientName string) ([]domain.Product, error) {
	if target := NormalizeName(ingredientName); target != "" {
		exact, err := c.loadProducts(ctx, `WHERE normalized_name = ?`, target)
		if err != nil {
			return nil, err
		}
		if len(exact) > 0 {
			return exact, nil
		}
	}

	products, err := c.loadProducts(ctx, "")
	if err != nil {
		return nil, err
	}

	matched := c.matcher.Select(ingredientName, products)
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrProductNotFound, ingredientName)
	}
	return matched, nil
}

// loadProducts loads the products selected by an optional WHERE clause
func (c *SQLiteCatalog) loadProducts(ctx context.Context, where string, args ...interface{}) ([]domain.Product, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, name FROM products `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	var ids []int64
	var products []domain.Product
	for rows.Next() {
		var id int64
		var product domain.Product
		if err := rows.Scan(&id, &product.ProductName); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
		products = append(products, product)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Product, len(products))
	for i, id := range ids {
		byID[id] = &products[i]
	}

	if err := c.loadNutrientFacts(ctx, byID); err != nil {
		return nil, err
	}
	if err := c.loadSupplierProducts(ctx, byID); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *SQLiteCatalog) loadNutrientFacts(ctx context.Context, byID map[int64]*domain.Product) error {
	rows, err := c.db.QueryContext(ctx, `SELECT product_id, nutrient_name, amount, amount_unit, amount_type, per_amount, per_unit, per_type
		FROM nutrient_facts ORDER BY product_id, position`)
	if err != nil {
		return fmt.Errorf("failed to query nutrient facts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var fact domain.NutrientFact
		var amountUnit, amountType, perUnit, perType string
		if err := rows.Scan(&productID, &fact.NutrientName,
			&fact.QuantityAmount.Amount, &amountUnit, &amountType,
			&fact.QuantityPer.Amount, &perUnit, &perType); err != nil {
			return err
		}
		fact.QuantityAmount.Name = domain.UoMName(amountUnit)
		fact.QuantityAmount.Type = domain.UoMType(amountType)
		fact.QuantityPer.Name = domain.UoMName(perUnit)
		fact.QuantityPer.Type = domain.UoMType(perType)

		if product, ok := byID[productID]; ok {
			product.NutrientFacts = append(product.NutrientFacts, fact)
		}
	}
	return rows.Err()
}

func (c *SQLiteCatalog) loadSupplierProducts(ctx context.Context, byID map[int64]*domain.Product) error {
	rows, err := c.db.QueryContext(ctx, `SELECT product_id, supplier_name, supplier_product_name, price, uom_amount, uom_name, uom_type
		FROM supplier_products ORDER BY product_id, position`)
	if err != nil {
		return fmt.Errorf("failed to query supplier products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var offer domain.SupplierProduct
		var uomName, uomType string
		if err := rows.Scan(&productID, &offer.SupplierName, &offer.SupplierProductName, &offer.SupplierPrice,
			&offer.SupplierProductUoM.Amount, &uomName, &uomType); err != nil {
			return err
		}
		offer.SupplierProductUoM.Name = domain.UoMName(uomName)
		offer.SupplierProductUoM.Type = domain.UoMType(uomType)

		if product, ok := byID[productID]; ok {
			product.SupplierProducts = append(product.SupplierProducts, offer)
		}
	}
	return rows.Err()
}

// Recipes returns every stored recipe in import order
func (c *SQLiteCatalog) Recipes(ctx context.Context) ([]domain.Recipe, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, name FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	var ids []int64
	var recipes []domain.Recipe
	for rows.Next() {
		var id int64
		var recipe domain.Recipe
		if err := rows.Scan(&id, &recipe.RecipeName); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
		recipes = append(recipes, recipe)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		items, err := c.loadLineItems(ctx, id)
		if err != nil {
			return nil, err
		}
		recipes[i].LineItems = items
	}
	return recipes, nil
}

// RecipeByName finds a stored recipe by case-insensitive name
func (c *SQLiteCatalog) RecipeByName(ctx context.Context, name string) (*domain.Recipe, error) {
	var id int64
	recipe := domain.Recipe{}
	err := c.db.QueryRowContext(ctx, `SELECT id, name FROM recipes WHERE name = ? COLLATE NOCASE`,
		strings.TrimSpace(name)).Scan(&id, &recipe.RecipeName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", domain.ErrRecipeNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe %q: %w", name, err)
	}

	recipe.LineItems, err = c.loadLineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (c *SQLiteCatalog) loadLineItems(ctx context.Context, recipeID int64) ([]domain.LineItem, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT ingredient_name, uom_amount, uom_name, uom_type
		FROM line_items WHERE recipe_id = ? ORDER BY position`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		var uomName, uomType string
		if err := rows.Scan(&item.Ingredient.IngredientName, &item.UnitOfMeasure.Amount, &uomName, &uomType); err != nil {
			return nil, err
		}
		item.UnitOfMeasure.Name = domain.UoMName(uomName)
		item.UnitOfMeasure.Type = domain.UoMType(uomType)
		items = append(items, item)
	}
	return items, rows.Err()
}
