// File: utils/constants.go
package utils

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// GeocodeCachePrefix is the prefix used for cached reverse geocoding results.
const GeocodeCachePrefix = "geo:"

// ChatStreamPrefix prefixes the Redis stream holding a channel's messages.
const ChatStreamPrefix = "chat:"

// ChatNotifyPrefix prefixes the pub/sub topic announcing channel writes.
const ChatNotifyPrefix = "chat-notify:"
