package handler

import (
	"strings"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

func toProductInput(f productForm) domain.ProductInput {
	return domain.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		ImageURL:    strings.TrimSpace(f.ImageURL),
		Brand:       strings.TrimSpace(f.Brand),
	}
}

func toVariationInput(f variationForm) domain.VariationInput {
	return domain.VariationInput{
		ProductID:   f.ProductID,
		ColorName:   strings.TrimSpace(f.ColorName),
		PriceAmount: f.PriceAmount,
	}
}

func toColorInput(f colorForm) domain.ColorInput {
	return domain.ColorInput{
		Name:    strings.TrimSpace(f.Name),
		HexCode: strings.TrimSpace(f.HexCode),
	}
}

func toPriceInput(f priceForm) domain.PriceInput {
	return domain.PriceInput{Amount: f.Amount}
}

func toUserInput(f userForm) domain.UserInput {
	return domain.UserInput{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     domain.Role(f.Role),
	}
}

func tabLinks(tabs []domain.Resource, active domain.Resource) []tabLink {
	links := make([]tabLink, 0, len(tabs))
	for _, t := range tabs {
		links = append(links, tabLink{Resource: t, Label: t.Label(), Active: t == active})
	}
	return links
}

func dashboardPath(tab domain.Resource) string {
	return "/dashboard/" + string(tab)
}
