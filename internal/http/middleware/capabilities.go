package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-genui/internal/genui/capability"
	"github.com/yungbote/neurobridge-genui/internal/platform/ctxutil"
)

// Capability declaration headers. Any subset may be sent.
const (
	HeaderComponents     = "X-UI-Components"
	HeaderCapabilities   = "X-UI-Capabilities"
	HeaderClientVersion  = "X-Client-Version"
	HeaderClientPlatform = "X-Client-Platform"
)

const (
	capabilitiesKey = "genui_capabilities"
	fallbacksKey    = "genui_fallbacks"
)

// ParseCapabilities parses the client's declaration once per request and stores it on the
// gin context. The vocabulary is read from p on every request.
func ParseCapabilities(p capability.Provider) gin.HandlerFunc {
	if p == nil {
		p = capability.DefaultConfig()
	}
	return func(c *gin.Context) {
		caps := capability.Parse(p.Current(), capability.Declaration{
			Components: c.GetHeader(HeaderComponents),
			Envelope:   c.GetHeader(HeaderCapabilities),
			Version:    c.GetHeader(HeaderClientVersion),
			Platform:   c.GetHeader(HeaderClientPlatform),
		})
		c.Set(capabilitiesKey, caps)
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			td.Platform = caps.Platform
			td.Client = caps.ProtocolVersion
		}
		c.Next()
	}
}

// Capabilities returns the parsed declaration, or the legacy record when the middleware did
// not run.
func Capabilities(c *gin.Context) capability.ClientCapabilities {
	if v, ok := c.Get(capabilitiesKey); ok {
		if caps, ok := v.(capability.ClientCapabilities); ok {
			return caps
		}
	}
	return capability.Legacy(capability.DefaultConfig())
}

// RecordFallbacks notes the substitution count for the request log line.
func RecordFallbacks(c *gin.Context, n int) {
	c.Set(fallbacksKey, n)
}

func capsSource(v any) string {
	if caps, ok := v.(capability.ClientCapabilities); ok {
		return string(caps.Source)
	}
	return ""
}
