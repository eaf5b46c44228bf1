package seeders

import (
	"gorm.io/datatypes"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

func init() {
	Register(repositories.FlavorComputer, computerCatalogue)
}

const img = "https://example.com/images/"

func computerCatalogue() []models.Product {
	return products([]sample{
		{
			category: "CPU", name: "Intel Core i9-12900K",
			desc:  "High-end desktop processor with exceptional performance",
			image: img + "i9_12900k.jpg", price: "589.99", stock: 10,
			featured: true, rating: 4.9, reviews: 67,
			specs: datatypes.JSONMap{"cores": "16 (8P+8E)", "threads": 24, "boost_clock": "5.2 GHz", "cache": "30MB", "tdp": "125W"},
		},
		{
			category: "CPU", name: "Intel Core i5-12600K",
			desc:  "Excellent mid-range desktop processor",
			image: img + "i5_12600k.jpg", price: "289.99", stock: 15,
			rating: 4.7, reviews: 112,
			specs: datatypes.JSONMap{"cores": "10 (6P+4E)", "threads": 16, "boost_clock": "4.9 GHz", "cache": "20MB", "tdp": "125W"},
		},
		{
			category: "CPU", name: "AMD Ryzen 9 5950X",
			desc:  "High-end desktop processor with 16 cores",
			image: img + "ryzen_5950x.jpg", price: "549.99", stock: 8,
			featured: true, rating: 4.8, reviews: 89,
			specs: datatypes.JSONMap{"cores": "16", "threads": 32, "boost_clock": "4.9 GHz", "cache": "72MB", "tdp": "105W"},
		},
		{
			category: "CPU", name: "AMD Ryzen 5 5600X",
			desc:  "Mid-range desktop processor",
			image: img + "ryzen_5600x.jpg", price: "279.99", stock: 25,
			discount: 10, rating: 4.8, reviews: 156,
			specs: datatypes.JSONMap{"cores": "6", "threads": 12, "boost_clock": "4.6 GHz", "cache": "35MB", "tdp": "65W"},
		},
		{
			category: "GPU", name: "NVIDIA RTX 3080",
			desc:  "High-end graphics card",
			image: img + "rtx_3080.jpg", price: "799.99", stock: 5,
			featured: true, rating: 4.8, reviews: 98,
			specs: datatypes.JSONMap{"memory": "10GB GDDR6X", "cuda_cores": 8704, "boost_clock": "1.71 GHz"},
		},
		{
			category: "GPU", name: "NVIDIA RTX 3060 Ti",
			desc:  "Mid-range graphics card with excellent value",
			image: img + "rtx_3060ti.jpg", price: "399.99", stock: 15,
			discount: 5, rating: 4.7, reviews: 145,
			specs: datatypes.JSONMap{"memory": "8GB GDDR6", "cuda_cores": 4864, "boost_clock": "1.67 GHz"},
		},
		{
			category: "GPU", name: "AMD Radeon RX 6800 XT",
			desc:  "High-performance AMD graphics card",
			image: img + "rx_6800xt.jpg", price: "649.99", stock: 7,
			rating: 4.6, reviews: 78,
			specs: datatypes.JSONMap{"memory": "16GB GDDR6", "stream_processors": 4608, "game_clock": "2.25 GHz"},
		},
		{
			category: "GPU", name: "AMD Radeon RX 6700 XT",
			desc:  "Mid-range graphics card",
			image: img + "rx_6700xt.jpg", price: "479.99", stock: 12,
			discount: 8, rating: 4.6, reviews: 73,
			specs: datatypes.JSONMap{"memory": "12GB GDDR6", "stream_processors": 2560, "game_clock": "2.58 GHz"},
		},
		{
			category: "RAM", name: "Corsair Vengeance RGB Pro 32GB",
			desc:  "High-performance DDR4 memory with RGB lighting",
			image: img + "corsair_rgb.jpg", price: "159.99", stock: 20,
			featured: true, rating: 4.8, reviews: 124,
			specs: datatypes.JSONMap{"capacity": "32GB (2x16GB)", "speed": "DDR4-3600", "latency": "CL18", "color": "Black"},
		},
		{
			category: "RAM", name: "G.Skill Trident Z Neo 16GB",
			desc:  "RGB DDR4 memory optimized for AMD Ryzen",
			image: img + "gskill_trident.jpg", price: "109.99", stock: 15,
			discount: 5, rating: 4.7, reviews: 89,
			specs: datatypes.JSONMap{"capacity": "16GB (2x8GB)", "speed": "DDR4-3600", "latency": "CL16", "color": "Black/Silver"},
		},
		{
			category: "STORAGE", name: "Samsung 970 EVO Plus 1TB",
			desc:  "High-performance NVMe SSD",
			image: img + "samsung_970.jpg", price: "129.99", stock: 25,
			featured: true, rating: 4.9, reviews: 203,
			specs: datatypes.JSONMap{"capacity": "1TB", "interface": "NVMe PCIe Gen 3.0 x4", "form_factor": "M.2 2280", "read": "3,500 MB/s"},
		},
		{
			category: "STORAGE", name: "WD Black 4TB",
			desc:  "Performance hard drive for gaming",
			image: img + "wd_black.jpg", price: "99.99", stock: 18,
			discount: 10, rating: 4.6, reviews: 76,
			specs: datatypes.JSONMap{"capacity": "4TB", "rpm": 7200, "interface": "SATA 6 Gb/s", "cache": "256MB"},
		},
		{
			category: "MB", name: "ASUS ROG Strix Z690-E Gaming",
			desc:  "High-end motherboard for Intel 12th Gen processors",
			image: img + "asus_z690.jpg", price: "399.99", stock: 8,
			featured: true, rating: 4.8, reviews: 56,
			specs: datatypes.JSONMap{"socket": "LGA 1700", "chipset": "Intel Z690", "form_factor": "ATX", "memory": "DDR5", "wifi": "WiFi 6E"},
		},
		{
			category: "MB", name: "MSI MPG B550 Gaming Edge WiFi",
			desc:  "Mid-range motherboard for AMD processors",
			image: img + "msi_b550.jpg", price: "189.99", stock: 12,
			discount: 5, rating: 4.7, reviews: 89,
			specs: datatypes.JSONMap{"socket": "AM4", "chipset": "AMD B550", "form_factor": "ATX", "memory": "DDR4", "wifi": "WiFi 6"},
		},
	})
}
