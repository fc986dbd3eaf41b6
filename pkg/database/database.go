// Package database opens the listing datastores: MongoDB, or a Supabase project
// reached through its PostgREST API.
package database

// Collection (Mongo) and table (Supabase) names.
const (
	PropertiesCollection = "properties"
	PhotosCollection     = "property_photos"
	AppraisalsCollection = "appraisals"
)
