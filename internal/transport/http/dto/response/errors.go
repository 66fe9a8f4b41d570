package response

var (
	ErrInvalidJSON = Err("invalid_json")
	ErrBadID       = Err("bad_id")
	ErrNotFound    = Err("not_found")
	ErrSlugExists  = Err("slug_exists")
	ErrServer      = Err("server_error")

	ErrNameAndSlugRequired     = Err("name_and_slug_required")
	ErrTourPriceFromRequired   = Err("tour_price_from_required")
	ErrTransportRateRequired   = Err("transport_rate_required")
	ErrTitleRequired           = Err("title_required")
	ErrCustomerNameRequired    = Err("customer_name_required")
	ErrVisaNotFound            = Err("visa_not_found")
	ErrItemsRequired           = Err("items_required")
	ErrInvalidItem             = Err("invalid_item")
	ErrTooManyItems            = Err("too_many_items")
	ErrFileNameAndTypeRequired = Err("file_name_and_type_required")
)
