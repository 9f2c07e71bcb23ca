package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/internal/repo"
	"github.com/Skotchmaster/hugelabz/internal/service"
	"github.com/Skotchmaster/hugelabz/internal/transport"
	"github.com/Skotchmaster/hugelabz/pkg/logging"
)

//go:embed default.yaml
var defaultData []byte

type Category struct {
	Name  string `yaml:"name"`
	Slug  string `yaml:"slug"`
	Image string `yaml:"image"`
}

type Product struct {
	Name            string                  `yaml:"name"`
	Description     string                  `yaml:"description"`
	Category        string                  `yaml:"category"`
	Image           string                  `yaml:"image"`
	Tagline         string                  `yaml:"tagline"`
	Benefits        []string                `yaml:"benefits"`
	Usage           string                  `yaml:"usage"`
	Ingredients     string                  `yaml:"ingredients"`
	Highlight       string                  `yaml:"highlight"`
	Goal            string                  `yaml:"goal"`
	Servings        string                  `yaml:"servings"`
	SupplementFacts *models.SupplementFacts `yaml:"supplementFacts"`
}

type Admin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type Data struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
	Admin      *Admin     `yaml:"admin"`
}

type Report struct {
	Categories int
	Products   int
	Admin      bool
}

func Default() (*Data, error) {
	return Parse(defaultData)
}

func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &d, nil
}

func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

type Seeder struct {
	Repo    *repo.GormRepo
	Catalog *service.CatalogService
	Auth    *service.AuthService
}

// Run inserts whatever is missing. Categories are matched by slug, products
// by name and the admin by email, so running it twice is harmless. The admin
// is only created when a password was supplied.
func (s *Seeder) Run(ctx context.Context, d *Data) (*Report, error) {
	l := logging.FromContext(ctx).With("svc", "seed")
	rep := &Report{}

	for _, c := range d.Categories {
		slug := service.Slugify(c.Slug)
		if slug == "" {
			slug = service.Slugify(c.Name)
		}
		if _, err := s.Repo.GetCategoryBySlug(ctx, slug); err == nil {
			continue
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		if _, err := s.Catalog.CreateCategory(ctx, transport.CategoryRequest{Name: c.Name, Slug: slug, Image: c.Image}); err != nil {
			return nil, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		rep.Categories++
	}

	for _, p := range d.Products {
		if _, err := s.Repo.FindProductByName(ctx, p.Name); err == nil {
			continue
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		prod := &models.Product{
			Name:            p.Name,
			Description:     p.Description,
			Category:        p.Category,
			Image:           p.Image,
			Tagline:         p.Tagline,
			Benefits:        p.Benefits,
			Usage:           p.Usage,
			Ingredients:     p.Ingredients,
			Highlight:       p.Highlight,
			Goal:            p.Goal,
			Servings:        p.Servings,
			SupplementFacts: p.SupplementFacts,
		}
		if err := s.Catalog.CreateProduct(ctx, prod); err != nil {
			return nil, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		rep.Products++
	}

	switch {
	case d.Admin == nil || d.Admin.Email == "":
	case d.Admin.Password == "":
		l.Warn("seed_admin_skipped", "email", d.Admin.Email, "reason", "no admin password configured")
	default:
		_, created, err := s.Auth.CreateAdmin(ctx, d.Admin.Email, d.Admin.Password, d.Admin.Name)
		if err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		rep.Admin = created
	}

	l.Info("seed_complete", "categories", rep.Categories, "products", rep.Products, "admin_created", rep.Admin)
	return rep, nil
}
