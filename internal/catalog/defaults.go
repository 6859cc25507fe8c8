package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/promo"
)

func rub(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func markdown(original int64, percent int) *product.Markdown {
	return &product.Markdown{OriginalPrice: rub(original), Percent: percent}
}

// Default returns the built-in storefront data.
func Default() Data {
	return Data{
		Products: []product.Product{
			{ID: 1, Name: "Беспроводные наушники Premium", Price: rub(4990), Markdown: markdown(6990, 30), Image: "🎧", Category: "Электроника", InStock: true},
			{ID: 2, Name: "Смарт-часы Sport", Price: rub(8990), Markdown: markdown(12990, 30), Image: "⌚", Category: "Электроника", InStock: true},
			{ID: 3, Name: "Рюкзак городской", Price: rub(2490), Image: "🎒", Category: "Аксессуары", InStock: true},
			{ID: 4, Name: "Термокружка 500мл", Price: rub(1290), Markdown: markdown(1790, 25), Image: "☕", Category: "Товары для дома", InStock: true},
			{ID: 5, Name: "Портативная колонка", Price: rub(3490), Image: "🔊", Category: "Электроника", InStock: true},
			{ID: 6, Name: "Фитнес-браслет", Price: rub(2990), Markdown: markdown(4490, 35), Image: "📱", Category: "Электроника", InStock: false},
		},
		Categories: []product.Category{
			{Name: "Электроника", Icon: "Smartphone", Color: "bg-blue-100 text-blue-600"},
			{Name: "Одежда", Icon: "ShoppingBag", Color: "bg-purple-100 text-purple-600"},
			{Name: "Дом", Icon: "Home", Color: "bg-green-100 text-green-600"},
			{Name: "Спорт", Icon: "Dumbbell", Color: "bg-orange-100 text-orange-600"},
		},
		Orders: []order.Order{
			{
				Number:   "12345",
				PlacedAt: time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC),
				Status:   order.StatusDelivered,
				Items:    []order.OrderItem{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}},
				Total:    rub(13980),
			},
			{
				Number:   "12344",
				PlacedAt: time.Date(2025, time.November, 12, 0, 0, 0, 0, time.UTC),
				Status:   order.StatusInTransit,
				Items:    []order.OrderItem{{ProductID: 3, Quantity: 1}},
				Total:    rub(2490),
			},
		},
		Promos: promo.DefaultTable(),
		Notifications: []Notification{
			{Title: "Заказ доставлен", Body: "Ваш заказ #12345 успешно доставлен", Age: "2 часа назад", Kind: NotificationDelivered},
			{Title: "Заказ в пути", Body: "Заказ #12344 передан курьеру", Age: "5 часов назад", Kind: NotificationShipping},
			{Title: "Новая акция!", Body: "Скидки до 30% на электронику", Age: "Вчера", Kind: NotificationPromo},
		},
		Profile: Profile{
			Name:  "Иван Иванов",
			Email: "ivan@example.com",
			Menu: []MenuItem{
				{Title: "Мои заказы", Icon: "Package", Screen: "orders"},
				{Title: "Способы оплаты", Icon: "CreditCard"},
				{Title: "Адреса доставки", Icon: "MapPin"},
				{Title: "Настройки", Icon: "Settings"},
			},
		},
		PopularSearches: []string{"наушники", "смарт-часы", "рюкзак", "колонка"},
		Banner: Banner{
			Title:    "Скидки до 30%",
			Subtitle: "На всю электронику",
			Action:   "Смотреть товары",
		},
	}
}
