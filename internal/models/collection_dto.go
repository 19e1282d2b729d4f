package models

// CreateCollectionRequest is the request body for creating a collection
type CreateCollectionRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateCollectionRequest is the request body for updating a collection
type UpdateCollectionRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ShareRequest shares a collection with users by username
type ShareRequest struct {
	PageID     string   `json:"page_id"`
	Usernames  []string `json:"usernames"`
	Permission string   `json:"permission"`
}

// ShareResponse reports who actually received a grant
type ShareResponse struct {
	SharedWith    []string `json:"shared_with"`
	Permission    string   `json:"permission"`
	SharedPageURL string   `json:"shared_page_url"`
}

// LinkShareSettingsRequest updates the link-share flag and permission
type LinkShareSettingsRequest struct {
	IsLinkShareable     *bool   `json:"is_link_shareable,omitempty"`
	ShareablePermission *string `json:"shareable_permission,omitempty"`
}

// LinkShareSettingsResponse is the owner's view of link-share settings
type LinkShareSettingsResponse struct {
	IsLinkShareable     bool   `json:"is_link_shareable"`
	ShareablePermission string `json:"shareable_permission"`
	ShareToken          string `json:"shareable_link_token"`
	ShareURL            string `json:"shareable_link_url"`
}

// SharedUsersResponse lists the grantee usernames of a collection
type SharedUsersResponse struct {
	SharedUsers []string `json:"shared_users"`
}

// CollectionWithTasksResponse pairs a collection with its tasks
type CollectionWithTasksResponse struct {
	Collection *Collection `json:"collection"`
	Tasks      []*Task     `json:"tasks"`
}
