package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for share-index operations.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Client attributes
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"
	AttrClientPort = "client.port"
	AttrClientHost = "client.host"

	// ========================================================================
	// Share-index attributes
	// ========================================================================
	AttrOperation = "fs.operation" // Generic operation name
	AttrShare     = "fs.share"     // Share root name
	AttrPath      = "fs.path"      // Virtual or real path
	AttrFilename  = "fs.filename"  // File name (basename)
	AttrSize      = "fs.size"      // File or tree size in bytes
	AttrCount     = "fs.count"     // Item count (files, results, ...)
	AttrTTH       = "fs.tth"       // Tiger Tree Hash identity
	AttrProfile   = "fs.profile"   // Share profile token

	// ========================================================================
	// User/Auth attributes
	// ========================================================================
	AttrUID      = "user.uid"
	AttrGID      = "user.gid"
	AttrUsername = "user.name"
	AttrDomain   = "user.domain"
	AttrAuth     = "auth.method"

	// ========================================================================
	// Cache attributes
	// ========================================================================
	AttrCacheHit    = "cache.hit"
	AttrCacheSource = "cache.source"
	AttrCacheState  = "cache.state"
	AttrCacheSize   = "cache.size"

	// ========================================================================
	// Storage backend attributes
	// ========================================================================
	AttrContentID = "content.id"
	AttrStoreName = "store.name"
	AttrStoreType = "store.type"
	AttrBucket    = "storage.bucket"
	AttrContainer = "storage.container"
	AttrKey       = "storage.key"
	AttrRegion    = "storage.region"
)

// Span names for share-index operations.
// Format: <component>.<operation>
const (
	SpanIndexScan       = "index.scan"
	SpanIndexDirectory  = "index.directory"
	SpanSearchQuery     = "search.query"
	SpanFilelistGenerate = "filelist.generate"

	SpanCacheLookup  = "cache.lookup"
	SpanCacheWrite   = "cache.write"
	SpanCacheFlush   = "cache.flush"
	SpanCacheEvict   = "cache.evict"
	SpanContentRead  = "content.read"
	SpanContentWrite = "content.write"
	SpanContentStat  = "content.stat"
	SpanMetaLookup   = "metadata.lookup"
	SpanMetaUpdate   = "metadata.update"
	SpanMetaCreate   = "metadata.create"
	SpanMetaDelete   = "metadata.delete"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// FSOperation returns an attribute for share-index operation name
func FSOperation(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// FSShare returns an attribute for share root name
func FSShare(share string) attribute.KeyValue {
	return attribute.String(AttrShare, share)
}

// FSPath returns an attribute for a virtual or real path
func FSPath(path string) attribute.KeyValue {
	return attribute.String(AttrPath, path)
}

// FSFilename returns an attribute for a file name (basename)
func FSFilename(name string) attribute.KeyValue {
	return attribute.String(AttrFilename, name)
}

// FSSize returns an attribute for a file or tree size in bytes
func FSSize(size int64) attribute.KeyValue {
	return attribute.Int64(AttrSize, size)
}

// FSCount returns an attribute for an item count
func FSCount(count int) attribute.KeyValue {
	return attribute.Int(AttrCount, count)
}

// FSTTH returns an attribute for a Tiger Tree Hash identity
func FSTTH(tth string) attribute.KeyValue {
	return attribute.String(AttrTTH, tth)
}

// FSProfile returns an attribute for a share profile token
func FSProfile(profile int) attribute.KeyValue {
	return attribute.Int(AttrProfile, profile)
}

// UID returns an attribute for user ID
func UID(uid uint32) attribute.KeyValue {
	return attribute.Int64(AttrUID, int64(uid))
}

// GID returns an attribute for group ID
func GID(gid uint32) attribute.KeyValue {
	return attribute.Int64(AttrGID, int64(gid))
}

// Username returns an attribute for username
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// Domain returns an attribute for domain name
func Domain(name string) attribute.KeyValue {
	return attribute.String(AttrDomain, name)
}

// AuthMethod returns an attribute for authentication method
func AuthMethod(method string) attribute.KeyValue {
	return attribute.String(AttrAuth, method)
}

// CacheHit returns an attribute for cache hit indicator
func CacheHit(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, hit)
}

// CacheSource returns an attribute for cache source
func CacheSource(source string) attribute.KeyValue {
	return attribute.String(AttrCacheSource, source)
}

// CacheState returns an attribute for cache state
func CacheState(state string) attribute.KeyValue {
	return attribute.String(AttrCacheState, state)
}

// ContentID returns an attribute for content ID
func ContentID(id string) attribute.KeyValue {
	return attribute.String(AttrContentID, id)
}

// StoreName returns an attribute for store name
func StoreName(name string) attribute.KeyValue {
	return attribute.String(AttrStoreName, name)
}

// StoreType returns an attribute for store type
func StoreType(t string) attribute.KeyValue {
	return attribute.String(AttrStoreType, t)
}

// Bucket returns an attribute for S3 bucket name
func Bucket(name string) attribute.KeyValue {
	return attribute.String(AttrBucket, name)
}

// Container returns an attribute for Azure container name
func Container(name string) attribute.KeyValue {
	return attribute.String(AttrContainer, name)
}

// StorageKey returns an attribute for S3 object key
func StorageKey(key string) attribute.KeyValue {
	return attribute.String(AttrKey, key)
}

// Region returns an attribute for cloud region
func Region(region string) attribute.KeyValue {
	return attribute.String(AttrRegion, region)
}

// StartIndexSpan starts a span for scanning a share root into the tree.
func StartIndexSpan(ctx context.Context, share string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{FSShare(share)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanIndexScan, trace.WithAttributes(allAttrs...))
}

// StartSearchSpan starts a span for running a query across the share index.
func StartSearchSpan(ctx context.Context, pattern string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{FSOperation(pattern)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanSearchQuery, trace.WithAttributes(allAttrs...))
}

// StartFilelistSpan starts a span for generating a filelist document.
func StartFilelistSpan(ctx context.Context, path string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{FSPath(path)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanFilelistGenerate, trace.WithAttributes(allAttrs...))
}

// StartContentSpan starts a span for a content store operation.
func StartContentSpan(ctx context.Context, operation string, contentID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		ContentID(contentID),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "content."+operation, trace.WithAttributes(allAttrs...))
}

// StartCacheSpan starts a span for a cache operation.
func StartCacheSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "cache."+operation, trace.WithAttributes(attrs...))
}

// StartMetadataSpan starts a span for a metadata store operation.
func StartMetadataSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "metadata."+operation, trace.WithAttributes(attrs...))
}
