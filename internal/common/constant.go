package common

// AuthorizationHeaderName carries "Bearer <access token>" on JSON API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// OctetStreamContentType is the MIME type of every download payload.
const OctetStreamContentType = "application/octet-stream"

// UploadsRoot is the top-level directory (or key prefix) holding user blobs.
const UploadsRoot = "uploads"
