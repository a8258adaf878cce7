package logging

// Standardized attribute keys. Use these instead of ad hoc strings so log
// output stays consistent across packages.
const (
	FieldComponent = "component"

	FieldEventType = "event_type"

	FieldErrorHint = "error_hint"

	FieldPhotoID = "photo_id"

	FieldPhotoPath = "photo_path"

	FieldDestination = "destination"

	FieldTagCount = "tag_count"

	FieldCatalog = "catalog"

	FieldMount = "mount"
)
