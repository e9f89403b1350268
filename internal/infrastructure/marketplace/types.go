package marketplace

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerbridge/backend/internal/domain/seller"
)

// Wire types for the marketplace REST API. Field names follow the
// upstream JSON; conversion to domain types (and the dashboard's field
// names) happens in the toDomain helpers.

type wirePaging struct {
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

type wireSearchResponse struct {
	Results []string   `json:"results"`
	Paging  wirePaging `json:"paging"`
}

type wireItem struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	CategoryID        string       `json:"category_id"`
	Price             json.Number  `json:"price"`
	CurrencyID        string       `json:"currency_id"`
	AvailableQuantity int64        `json:"available_quantity"`
	SoldQuantity      int64        `json:"sold_quantity"`
	Status            string       `json:"status"`
	Permalink         string       `json:"permalink"`
	SecureThumbnail   string       `json:"secure_thumbnail"`
	Pictures          []wireItemPic `json:"pictures"`
	DateCreated       time.Time    `json:"date_created"`
	LastUpdated       time.Time    `json:"last_updated"`
}

type wireItemPic struct {
	ID string `json:"id"`
}

// wireMultigetEntry wraps a single item in a batched detail response.
type wireMultigetEntry struct {
	Code int      `json:"code"`
	Body wireItem `json:"body"`
}

type wireBuyer struct {
	ID       json.Number `json:"id"`
	Nickname string      `json:"nickname"`
}

type wireOrderItem struct {
	Item struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"item"`
	Quantity  int64       `json:"quantity"`
	UnitPrice json.Number `json:"unit_price"`
}

type wireShippingRef struct {
	ID json.Number `json:"id"`
}

type wireOrder struct {
	ID          json.Number     `json:"id"`
	Status      string          `json:"status"`
	Buyer       wireBuyer       `json:"buyer"`
	TotalAmount json.Number     `json:"total_amount"`
	PaidAmount  json.Number     `json:"paid_amount"`
	CurrencyID  string          `json:"currency_id"`
	OrderItems  []wireOrderItem `json:"order_items"`
	Shipping    wireShippingRef `json:"shipping"`
	DateCreated time.Time       `json:"date_created"`
	DateClosed  *time.Time      `json:"date_closed"`
	DateDelivered *time.Time    `json:"date_delivered"`
}

type wireOrderSearchResponse struct {
	Results []wireOrder `json:"results"`
	Paging  wirePaging  `json:"paging"`
}

type wireAddressPart struct {
	Name string `json:"name"`
}

type wireShipment struct {
	ID              json.Number `json:"id"`
	OrderID         json.Number `json:"order_id"`
	Status          string      `json:"status"`
	TrackingNumber  string      `json:"tracking_number"`
	TrackingMethod  string      `json:"tracking_method"`
	ReceiverAddress struct {
		ReceiverName string          `json:"receiver_name"`
		City         wireAddressPart `json:"city"`
		State        wireAddressPart `json:"state"`
		ZipCode      string          `json:"zip_code"`
	} `json:"receiver_address"`
	DateCreated   time.Time  `json:"date_created"`
	DateShipped   *time.Time `json:"date_shipped"`
	DateDelivered *time.Time `json:"date_delivered"`
}

type wireCategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireCategory struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	PathFromRoot       []wireCategoryRef `json:"path_from_root"`
	ChildrenCategories []wireCategoryRef `json:"children_categories"`
}

type wirePrediction struct {
	DomainID     string `json:"domain_id"`
	DomainName   string `json:"domain_name"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

type wirePicture struct {
	ID         string `json:"id"`
	Variations []struct {
		URL       string `json:"url"`
		SecureURL string `json:"secure_url"`
		Size      string `json:"size"`
	} `json:"variations"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	Size      string `json:"size"`
}

type wireProfile struct {
	ID        json.Number `json:"id"`
	Nickname  string      `json:"nickname"`
	Email     string      `json:"email"`
	SiteID    string      `json:"site_id"`
	Permalink string      `json:"permalink"`
}

// wireError is the upstream error envelope.
type wireError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

// ---- wire to domain conversion ----

func toDecimal(n json.Number) decimal.Decimal {
	if n == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (w *wireItem) toDomain() *seller.Listing {
	pictureIDs := make([]string, 0, len(w.Pictures))
	for _, p := range w.Pictures {
		pictureIDs = append(pictureIDs, p.ID)
	}
	return &seller.Listing{
		ID:         w.ID,
		Title:      w.Title,
		CategoryID: w.CategoryID,
		Price:      toDecimal(w.Price),
		Currency:   w.CurrencyID,
		Stock:      w.AvailableQuantity,
		Sales:      w.SoldQuantity,
		Status:     seller.ListingStatus(w.Status),
		Permalink:  w.Permalink,
		Thumbnail:  w.SecureThumbnail,
		PictureIDs: pictureIDs,
		CreatedAt:  w.DateCreated,
		UpdatedAt:  w.LastUpdated,
	}
}

func (w *wireOrder) toDomain() *seller.Order {
	items := make([]seller.OrderItem, 0, len(w.OrderItems))
	for _, oi := range w.OrderItems {
		items = append(items, seller.OrderItem{
			ListingID: oi.Item.ID,
			Title:     oi.Item.Title,
			Quantity:  oi.Quantity,
			UnitPrice: toDecimal(oi.UnitPrice),
		})
	}
	return &seller.Order{
		ID:          w.ID.String(),
		Status:      seller.OrderStatus(w.Status),
		BuyerID:     w.Buyer.ID.String(),
		BuyerName:   w.Buyer.Nickname,
		Total:       toDecimal(w.TotalAmount),
		Paid:        toDecimal(w.PaidAmount),
		Currency:    w.CurrencyID,
		Items:       items,
		ShipmentID:  w.Shipping.ID.String(),
		CreatedAt:   w.DateCreated,
		PaidAt:      w.DateClosed,
		DeliveredAt: w.DateDelivered,
	}
}

func (w *wireShipment) toDomain() *seller.Shipment {
	return &seller.Shipment{
		ID:             w.ID.String(),
		OrderID:        w.OrderID.String(),
		Status:         seller.ShipmentStatus(w.Status),
		TrackingNumber: w.TrackingNumber,
		Carrier:        w.TrackingMethod,
		ReceiverName:   w.ReceiverAddress.ReceiverName,
		City:           w.ReceiverAddress.City.Name,
		State:          w.ReceiverAddress.State.Name,
		ZipCode:        w.ReceiverAddress.ZipCode,
		CreatedAt:      w.DateCreated,
		ShippedAt:      w.DateShipped,
		DeliveredAt:    w.DateDelivered,
	}
}

func (w *wireCategory) toDomain() *seller.Category {
	path := make([]seller.CategoryNode, 0, len(w.PathFromRoot))
	for _, p := range w.PathFromRoot {
		path = append(path, seller.CategoryNode{ID: p.ID, Name: p.Name})
	}
	children := make([]seller.CategoryNode, 0, len(w.ChildrenCategories))
	for _, c := range w.ChildrenCategories {
		children = append(children, seller.CategoryNode{ID: c.ID, Name: c.Name})
	}
	return &seller.Category{
		ID:       w.ID,
		Name:     w.Name,
		Path:     path,
		Children: children,
	}
}

func (w *wirePrediction) toDomain() *seller.CategoryPrediction {
	return &seller.CategoryPrediction{
		CategoryID:   w.CategoryID,
		CategoryName: w.CategoryName,
		DomainID:     w.DomainID,
		DomainName:   w.DomainName,
	}
}

func (w *wirePicture) toDomain() *seller.Picture {
	pic := &seller.Picture{
		ID:        w.ID,
		URL:       w.URL,
		SecureURL: w.SecureURL,
		Size:      w.Size,
	}
	// Prefer the first (largest) variation when the flat fields are
	// absent, as in upload responses.
	if pic.URL == "" && len(w.Variations) > 0 {
		pic.URL = w.Variations[0].URL
		pic.SecureURL = w.Variations[0].SecureURL
		pic.Size = w.Variations[0].Size
	}
	return pic
}

func (w *wireProfile) toDomain() *seller.Profile {
	return &seller.Profile{
		ID:        w.ID.String(),
		Nickname:  w.Nickname,
		Email:     w.Email,
		SiteID:    w.SiteID,
		Permalink: w.Permalink,
	}
}
