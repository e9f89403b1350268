package seller

// Category is a node of the marketplace category tree.
type Category struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Path     []CategoryNode `json:"path"`
	Children []CategoryNode `json:"children,omitempty"`
}

// CategoryNode is a lightweight category reference used in paths and
// child lists.
type CategoryNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryPrediction is the marketplace's best category guess for a
// free-text listing title.
type CategoryPrediction struct {
	CategoryID   string         `json:"category_id"`
	CategoryName string         `json:"category_name"`
	DomainID     string         `json:"domain_id"`
	DomainName   string         `json:"domain_name"`
	Path         []CategoryNode `json:"path,omitempty"`
}

// Picture is a marketplace-hosted listing image. StagedURL points at
// the backend's own object-storage copy when one was kept.
type Picture struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	Size      string `json:"size"`
	StagedURL string `json:"staged_url,omitempty"`
}

// Profile identifies the authenticated marketplace seller account.
type Profile struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	SiteID    string `json:"site_id"`
	Permalink string `json:"permalink"`
}
