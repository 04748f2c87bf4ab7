package database

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/junaidrashid-git/yoruwear-api/auth"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedOptions controls what Seed loads. A nil Catalog seeds DefaultCatalog.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	Catalog       *SeedCatalog
}

// SeedCatalog is the seed document, either built in or read from YAML:
//
//	categories:
//	  - name: Accessories
//	    description: LED accessories
//	    products:
//	      - name: Sound Wave Bandana
//	        price: "39.99"
//	        stock: 80
//	        image: accessories/14-sound-wave-bandana.png
type SeedCatalog struct {
	Categories []SeedCategory `yaml:"categories"`
}

type SeedCategory struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Products    []SeedProduct `yaml:"products"`
}

// SeedProduct is one catalog entry. Price is a decimal string, never a YAML float.
type SeedProduct struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Stock       int    `yaml:"stock"`
	Image       string `yaml:"image"`
}

const imagePrefix = "/assets/products/"

var defaultCatalog = SeedCatalog{Categories: []SeedCategory{
	{
		Name:        "LED T-Shirts",
		Description: "Interactive T-shirts with LED patterns that react to music and sound",
		Products: []SeedProduct{
			{Name: "Pulse Wave LED Tee", Description: "Festival T-shirt with reactive LED wave patterns that follow the bassline.", Price: "89.99", Stock: 45, Image: "led-tshirts/1-pulse-wave-led-tee.png"},
			{Name: "Bass Drop Reactive Shirt", Description: "Cotton tee with a central LED panel that lights up on every bass drop.", Price: "94.99", Stock: 32, Image: "led-tshirts/2-bass-drop-reactive-shirt.png"},
			{Name: "Spectrum Analyser Tee", Description: "LED tee displaying a real-time audio spectrum across the chest.", Price: "99.99", Stock: 28, Image: "led-tshirts/3-spectrum-analyser-tee.png"},
			{Name: "Heartbeat Sync Shirt", Description: "LED shirt that syncs with your heartbeat and the music's BPM.", Price: "109.99", Stock: 22, Image: "led-tshirts/4-heartbeat-sync-shirt.png"},
		},
	},
	{
		Name:        "Hoodies & Sweaters",
		Description: "Comfortable hoodies with integrated LED systems for festival nights",
		Products: []SeedProduct{
			{Name: "Beat Thunder Hoodie", Description: "Festival hoodie with LED lightning patterns on sleeves and hood.", Price: "149.99", Stock: 25, Image: "hoodies-sweaters/6-beat-thunder-hoodie.png"},
			{Name: "Neural Network Hoodie", Description: "Hoodie with interconnected LED nodes that respond to sound complexity.", Price: "159.99", Stock: 18, Image: "hoodies-sweaters/7-neural-network-hoodie.png"},
			{Name: "Flame Reactive Sweater", Description: "Sweater with flame-pattern LEDs that intensify with music volume.", Price: "134.99", Stock: 30, Image: "hoodies-sweaters/8-flame-reactive-sweater.png"},
		},
	},
	{
		Name:        "Bottoms",
		Description: "LED-enhanced pants, shorts, and skirts for the complete festival look",
		Products: []SeedProduct{
			{Name: "Prism Light Cargo Pants", Description: "Cargo pants with LED strips running down the sides.", Price: "179.99", Stock: 20, Image: "bottoms/9-prism-light-cargo-pants.png"},
			{Name: "Cyber Glow Shorts", Description: "Shorts with glowing LED piping for summer festivals.", Price: "79.99", Stock: 42, Image: "bottoms/10-cyber-glow-shorts.png"},
			{Name: "Neon Dreams Skirt", Description: "Pleated skirt with LED hem that ripples with the beat.", Price: "124.99", Stock: 15, Image: "bottoms/11-neon-dreams-skirt.png"},
		},
	},
	{
		Name:        "Accessories",
		Description: "LED accessories including hats, gloves, and wearable tech",
		Products: []SeedProduct{
			{Name: "Rhythm Pulse Bucket Hat", Description: "Bucket hat with a pulsing LED band.", Price: "69.99", Stock: 55, Image: "accessories/12-rhythm-pulse-bucket-hat.png"},
			{Name: "Bass Reactive Gloves", Description: "Gloves with fingertip LEDs that react to bass.", Price: "54.99", Stock: 65, Image: "accessories/13-bass-reactive-gloves.png"},
			{Name: "Sound Wave Bandana", Description: "Bandana with a sound-wave LED strip.", Price: "39.99", Stock: 80, Image: "accessories/14-sound-wave-bandana.png"},
			{Name: "Infinity Loop Wristband", Description: "LED wristband with loop animations that sync with nearby YoruWear products.", Price: "44.99", Stock: 70, Image: "accessories/15-infinity-loop-wristband.png"},
		},
	},
	{
		Name:        "Festival Sets",
		Description: "Complete outfit sets with synchronized LED patterns",
		Products: []SeedProduct{
			{Name: "Festival King Complete Set", Description: "Complete outfit with synchronized LED patterns across every piece.", Price: "299.99", Stock: 8, Image: "festival-sets/16-festival-king-complete-set.png"},
			{Name: "Electric Dreams Outfit", Description: "Matching top and bottoms with shared LED choreography.", Price: "279.99", Stock: 12, Image: "festival-sets/17-electric-dreams-outfit.png"},
		},
	},
}}

// DefaultCatalog returns the built-in demo catalog.
func DefaultCatalog() *SeedCatalog {
	c := defaultCatalog
	return &c
}

// LoadCatalog decodes and validates a YAML seed catalog.
func LoadCatalog(r io.Reader) (*SeedCatalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c SeedCatalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("seed catalog is empty")
		}
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalogFile reads a catalog from path.
func LoadCatalogFile(path string) (*SeedCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCatalog(f)
}

func (c *SeedCatalog) Validate() error {
	if len(c.Categories) == 0 {
		return errors.New("seed catalog has no categories")
	}
	seen := make(map[string]bool)
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return errors.New("seed category without a name")
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate seed category %q", cat.Name)
		}
		seen[cat.Name] = true
		for _, p := range cat.Products {
			if strings.TrimSpace(p.Name) == "" {
				return fmt.Errorf("product without a name in %q", cat.Name)
			}
			price, err := decimal.NewFromString(p.Price)
			if err != nil || !price.IsPositive() {
				return fmt.Errorf("product %q: invalid price %q", p.Name, p.Price)
			}
			if p.Stock < 0 {
				return fmt.Errorf("product %q: negative stock", p.Name)
			}
		}
	}
	return nil
}

// ProductCount is the number of products across all categories.
func (c *SeedCatalog) ProductCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Products)
	}
	return n
}

func productImage(image string) string {
	if image == "" || strings.HasPrefix(image, "/") || strings.Contains(image, "://") {
		return image
	}
	return imagePrefix + image
}

// Seed inserts the catalog and accounts. It does nothing when categories
// already exist, so it is safe to run on every deploy.
func Seed(db *gorm.DB, opts SeedOptions, log *logrus.Logger) error {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if err := catalog.Validate(); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		log.Info("catalog already seeded, skipping")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		categories := make([]models.Category, len(catalog.Categories))
		for i, c := range catalog.Categories {
			categories[i] = models.Category{Name: c.Name, Description: c.Description}
		}
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}

		products := make([]models.Product, 0, catalog.ProductCount())
		for i, c := range catalog.Categories {
			categoryID := categories[i].ID
			for _, p := range c.Products {
				products = append(products, models.Product{
					Name:        p.Name,
					Description: p.Description,
					Price:       decimal.RequireFromString(p.Price),
					Stock:       p.Stock,
					CategoryID:  &categoryID,
					Image:       productImage(p.Image),
				})
			}
		}
		if len(products) > 0 {
			if err := tx.CreateInBatches(&products, 50).Error; err != nil {
				return fmt.Errorf("seed products: %w", err)
			}
		}

		if opts.AdminEmail != "" && opts.AdminPassword != "" {
			admin, err := adminUser(opts.AdminEmail, opts.AdminPassword)
			if err != nil {
				return err
			}
			if err := tx.Create(admin).Error; err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			// the column default swallows a false on insert
			if err := tx.Model(admin).Update("is_first_purchase", false).Error; err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
		}

		log.WithFields(logrus.Fields{
			"categories": len(categories),
			"products":   len(products),
		}).Info("database seeded")
		return nil
	})
}

// adminUser stores the email the way login looks it up.
func adminUser(email, password string) (*models.User, error) {
	email = auth.NormalizeEmail(email)
	if !auth.ValidEmail(email) {
		return nil, fmt.Errorf("seed admin: invalid email %q", email)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Email:           email,
		Name:            "Admin User",
		PasswordHash:    hash,
		IsFirstPurchase: false,
		IsAdmin:         true,
		DeliveryProfile: models.DeliveryProfile{
			FullName: "YoruWear Administrator",
			City:     "Leiden",
			Country:  "Netherlands",
		},
	}, nil
}
