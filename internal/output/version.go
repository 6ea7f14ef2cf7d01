package output

// SchemaVersion is the current version of the json error envelope.
// Increment this when making breaking changes to it.
const SchemaVersion = 1
