// Package seed loads an initial catalog into an empty store so a fresh
// deployment has something to sell.
package seed

import (
	"context"
	"log"

	"github.com/ChristianMadoz/libreM/models"
	"github.com/ChristianMadoz/libreM/store"
)

func f(v float64) *float64 { return &v }

var categories = []models.Category{
	{ID: 1, Name: "Tecnología", Icon: "Laptop"},
	{ID: 2, Name: "Hogar y Muebles", Icon: "Home"},
	{ID: 3, Name: "Deportes y Fitness", Icon: "Dumbbell"},
	{ID: 4, Name: "Moda", Icon: "Shirt"},
	{ID: 5, Name: "Electrodomésticos", Icon: "Refrigerator"},
	{ID: 6, Name: "Juguetes", Icon: "Gamepad2"},
	{ID: 7, Name: "Belleza", Icon: "Sparkles"},
	{ID: 8, Name: "Libros", Icon: "Book"},
	{ID: 9, Name: "Construcción", Icon: "Hammer"},
	{ID: 10, Name: "Automotriz", Icon: "Car"},
}

var products = []models.Product{
	{
		ID: "prod_1", Name: "iPhone 15 Pro Max 256GB",
		Price: 1299.99, OriginalPrice: f(1499.99), Discount: 13,
		Image:    "https://images.unsplash.com/photo-1695048133142-1a20484d2569?w=500&q=80",
		Category: "Tecnología", CategoryID: 1, FreeShipping: true,
		Rating: f(4.8), Reviews: 2847, Sold: 1523, Stock: 45,
		Description: "iPhone 15 Pro Max con sistema de cámara avanzado, chip A17 Pro y diseño de titanio. Pantalla Super Retina XDR de 6.7 pulgadas.",
		Features:    []string{"256GB almacenamiento", "Cámara 48MP", "Chip A17 Pro", "5G", "Titanio"},
		Colors:      []string{"Natural", "Azul", "Blanco", "Negro"},
		Seller:      "Apple Store Oficial", Verified: true,
	},
	{
		ID: "prod_2", Name: "Samsung Smart TV 55\" 4K UHD",
		Price: 549.99, OriginalPrice: f(799.99), Discount: 31,
		Image:    "https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?w=500&q=80",
		Category: "Tecnología", CategoryID: 1, FreeShipping: true,
		Rating: f(4.6), Reviews: 1234, Sold: 856, Stock: 23,
		Description: "Smart TV Samsung 55 pulgadas con resolución 4K UHD, HDR y sistema operativo Tizen.",
		Features:    []string{"55 pulgadas", "4K UHD", "HDR10+", "Smart TV", "WiFi"},
		Colors:      []string{"Negro"},
		Seller:      "Samsung Official", Verified: true,
	},
	{
		ID: "prod_3", Name: "Sony PlayStation 5 Digital Edition",
		Price: 449.99, Discount: 0,
		Image:    "https://images.unsplash.com/photo-1606813907291-d86efa9b94db?w=500&q=80",
		Category: "Tecnología", CategoryID: 1, FreeShipping: true,
		Rating: f(4.9), Reviews: 5678, Sold: 3421, Stock: 12,
		Description: "PlayStation 5 Edición Digital con SSD ultra rápido y compatibilidad con juegos PS4.",
		Features:    []string{"SSD 825GB", "Ray Tracing", "4K 120fps", "Control DualSense", "Sin lector"},
		Colors:      []string{"Blanco"},
		Seller:      "Sony Gaming", Verified: true,
	},
	{
		ID: "prod_4", Name: "MacBook Air M2 13\" 256GB",
		Price: 1099.00, OriginalPrice: f(1199.00), Discount: 8,
		Image:    "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=500&q=80",
		Category: "Tecnología", CategoryID: 1, FreeShipping: true,
		Rating: f(4.9), Reviews: 1876, Sold: 943, Stock: 34,
		Description: "MacBook Air con chip M2, pantalla Liquid Retina de 13.6 pulgadas y hasta 18 horas de batería.",
		Features:    []string{"Chip M2", "8GB RAM", "256GB SSD", "13.6 pulgadas", "Touch ID"},
		Colors:      []string{"Plata", "Gris espacial", "Oro", "Azul medianoche"},
		Seller:      "Apple Store", Verified: true,
	},
	{
		ID: "prod_5", Name: "Sofá Seccional Moderno 3 Plazas",
		Price: 899.99, OriginalPrice: f(1299.99), Discount: 31,
		Image:    "https://images.unsplash.com/photo-1555041469-a586c61ea9bc?w=500&q=80",
		Category: "Hogar y Muebles", CategoryID: 2, FreeShipping: true,
		Rating: f(4.5), Reviews: 432, Sold: 218, Stock: 8,
		Description: "Sofá seccional de 3 plazas con tapizado premium y estructura de madera maciza.",
		Features:    []string{"3 plazas", "Tapizado premium", "Madera maciza", "Cojines incluidos"},
		Colors:      []string{"Gris", "Beige", "Azul"},
		Seller:      "Muebles del Hogar", Verified: true,
	},
	{
		ID: "prod_6", Name: "Bicicleta Montaña Rodado 29",
		Price: 389.99, OriginalPrice: f(499.99), Discount: 22,
		Image:    "https://images.unsplash.com/photo-1532298229144-0ec0c57515c7?w=500&q=80",
		Category: "Deportes y Fitness", CategoryID: 3, FreeShipping: false,
		Rating: f(4.4), Reviews: 687, Sold: 412, Stock: 19,
		Description: "Bicicleta de montaña rodado 29 con cuadro de aluminio y 21 velocidades.",
		Features:    []string{"Rodado 29", "21 velocidades", "Cuadro aluminio", "Frenos a disco"},
		Colors:      []string{"Rojo", "Negro", "Verde"},
		Seller:      "Deportes Extremos", Verified: false,
	},
}

// Run populates categories and products when the catalog is empty.
// Idempotent across restarts: a non-empty catalog is left untouched.
func Run(ctx context.Context, s store.Store) error {
	count, err := s.CountProducts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range categories {
		if err := s.CreateCategory(ctx, &categories[i]); err != nil {
			return err
		}
	}
	for i := range products {
		if err := s.CreateProduct(ctx, &products[i]); err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded catalog: %d categories, %d products", len(categories), len(products))
	return nil
}
