package seeders

import (
	"gorm.io/datatypes"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

func init() {
	Register(repositories.FlavorCosmetics, cosmeticsCatalogue)
}

func cosmeticsCatalogue() []models.Product {
	return products([]sample{
		{
			category: "FACE", name: "Luminous Silk Foundation",
			desc:  "Lightweight buildable foundation with a natural finish",
			image: img + "silk_foundation.jpg", price: "42.00", stock: 30,
			featured: true, rating: 4.7, reviews: 310,
			specs: datatypes.JSONMap{"volume": "30ml", "finish": "natural", "shades": 40},
		},
		{
			category: "FACE", name: "Soft Glow Blush",
			desc:  "Silky powder blush for a healthy flush",
			image: img + "glow_blush.jpg", price: "24.00", stock: 45,
			discount: 15, rating: 4.5, reviews: 122,
			specs: datatypes.JSONMap{"weight": "5g", "finish": "satin"},
		},
		{
			category: "EYE", name: "Volume Lash Mascara",
			desc:  "Smudge-proof mascara that lifts and lengthens",
			image: img + "lash_mascara.jpg", price: "19.50", stock: 60,
			featured: true, rating: 4.6, reviews: 540,
			specs: datatypes.JSONMap{"volume": "9ml", "waterproof": true},
		},
		{
			category: "EYE", name: "Nude Eyeshadow Palette",
			desc:  "Twelve blendable neutral shades",
			image: img + "nude_palette.jpg", price: "38.00", stock: 20,
			discount: 10, rating: 4.8, reviews: 201,
			specs: datatypes.JSONMap{"shades": 12, "finishes": "matte, shimmer"},
		},
		{
			category: "LIP", name: "Velvet Matte Lipstick",
			desc:  "Long-wear matte lipstick with a comfortable feel",
			image: img + "velvet_lipstick.jpg", price: "22.00", stock: 50,
			rating: 4.4, reviews: 95,
			specs: datatypes.JSONMap{"weight": "3.5g", "finish": "matte"},
		},
		{
			category: "SKINCARE", name: "Hydrating Hyaluronic Serum",
			desc:  "Daily serum for plump hydrated skin",
			image: img + "hyaluronic_serum.jpg", price: "29.90", stock: 35,
			featured: true, discount: 20, rating: 4.9, reviews: 612,
			specs: datatypes.JSONMap{"volume": "30ml", "skin_type": "all"},
		},
		{
			category: "TOOLS", name: "Blending Sponge Set",
			desc:  "Latex-free sponges for seamless blending",
			image: img + "sponge_set.jpg", price: "12.00", stock: 80,
			rating: 4.3, reviews: 88,
			specs: datatypes.JSONMap{"pieces": 3},
		},
	})
}
