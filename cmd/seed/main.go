package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sql.DB {
	db, _ := c.Context.Value(dbKey).(*sql.DB)
	return db
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with initial data",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:  "auth",
				Usage: "Seed roles and the initial admin account",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "admin-password",
						Usage:   "Password for the admin account",
						Value:   "admin123",
						EnvVars: []string{"SEED_ADMIN_PASSWORD"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedAuth,
			},
			{
				Name:   "demo",
				Usage:  "Seed a demo catalog: categories, products, ingredients, recipes and additions",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: seedDemo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seedAuth(c *cli.Context) error {
	db := dbFrom(c)
	ctx := c.Context

	roles := []struct {
		name        string
		permissions []string
	}{
		{"admin", []string{"*"}},
		{"seller", []string{"sales", "stock", "dashboard"}},
		{"inventory", []string{"ingredients", "recipes", "products", "stock"}},
	}

	for _, role := range roles {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO roles (name, permissions)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING`,
			role.name, fmt.Sprintf("{%s}", joinPerms(role.permissions)),
		); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.name, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.String("admin-password")), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, role_id, is_active)
		SELECT 'admin', 'admin@localhost', $1, id, TRUE FROM roles WHERE name = 'admin'
		ON CONFLICT (username) DO NOTHING`,
		string(hash),
	); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("auth seed complete")
	return nil
}

func seedDemo(c *cli.Context) error {
	db := dbFrom(c)
	ctx := c.Context

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to open transaction: %w", err)
	}
	defer tx.Rollback()

	var categoryID int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO categories (name) VALUES ('Helados')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`).Scan(&categoryID); err != nil {
		return fmt.Errorf("failed to seed category: %w", err)
	}

	ingredients := []struct {
		name     string
		unit     string
		total    float64
		price    float64
		minLevel float64
	}{
		{"Leche entera", "ml", 10000, 18000, 2000},
		{"Crema de leche", "ml", 5000, 32000, 1000},
		{"Azúcar", "g", 8000, 12000, 1500},
		{"Pulpa de fresa", "g", 3000, 25000, 500},
		{"Cono de galleta", "unidad", 200, 40000, 40},
	}

	ingredientIDs := make(map[string]int64, len(ingredients))
	for _, ing := range ingredients {
		var id int64
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO ingredients (name, unit, total_quantity, package_price, min_threshold)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO UPDATE SET unit = EXCLUDED.unit
			RETURNING id`,
			ing.name, ing.unit, ing.total, ing.price, ing.minLevel,
		).Scan(&id); err != nil {
			return fmt.Errorf("failed to seed ingredient %s: %w", ing.name, err)
		}
		ingredientIDs[ing.name] = id
	}

	products := []struct {
		name    string
		variant string
		price   float64
		recipe  map[string]float64
	}{
		{"Helado de fresa", "Cono sencillo", 6000, map[string]float64{
			"Leche entera":    120,
			"Crema de leche":  40,
			"Azúcar":          25,
			"Pulpa de fresa":  60,
			"Cono de galleta": 1,
		}},
		{"Helado de fresa", "Vaso doble", 9500, map[string]float64{
			"Leche entera":   240,
			"Crema de leche": 80,
			"Azúcar":         50,
			"Pulpa de fresa": 120,
		}},
		// No recipe: sold on demand.
		{"Botella de agua", "", 3000, nil},
	}

	for _, p := range products {
		var productID int64
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO products (name, variant, price, category_id, is_active, stock_quantity)
			VALUES ($1, NULLIF($2, ''), $3, $4, TRUE, -1)
			ON CONFLICT (name, COALESCE(variant, '')) DO UPDATE SET price = EXCLUDED.price
			RETURNING id`,
			p.name, p.variant, p.price, categoryID,
		).Scan(&productID); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.name, err)
		}

		for name, qty := range p.recipe {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO recipe_items (product_id, ingredient_id, quantity)
				VALUES ($1, $2, $3)
				ON CONFLICT (product_id, ingredient_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
				productID, ingredientIDs[name], qty,
			); err != nil {
				return fmt.Errorf("failed to seed recipe for %s: %w", p.name, err)
			}
		}
	}

	additions := []struct {
		name, kind    string
		price         float64
		stock, minimo int
	}{
		{"Crema chantilly", "TOPPING", 500, 50, 10},
		{"Arequipe", "TOPPING", 800, 30, 5},
		{"Chispas de chocolate", "TOPPING", 300, 100, 20},
		{"Fresas naturales", "FRUTA", 1000, 15, 5},
		{"Salsa de chocolate", "SALSA", 600, 40, 10},
		{"Granola", "CEREAL", 400, 60, 15},
	}

	for _, a := range additions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO additions (name, kind, price, stock, min_stock)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO NOTHING`,
			a.name, a.kind, a.price, a.stock, a.minimo,
		); err != nil {
			return fmt.Errorf("failed to seed addition %s: %w", a.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit demo seed: %w", err)
	}

	log.Println("demo seed complete")
	return nil
}

func joinPerms(perms []string) string {
	out := ""
	for i, p := range perms {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
