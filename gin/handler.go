package gin

import (
	"net/http"

	"github.com/fwojciec/linkopp"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/get_website_page_opportunities", s.handleFindOpportunities)
	s.router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not Found")
	})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"hello": "world"})
}

func (s *Server) handleFindOpportunities(c *gin.Context) {
	filter := linkopp.OpportunityFilter{PageURL: c.Query("pageUrl")}
	if err := filter.Validate(); err != nil {
		Error(c, err)
		return
	}

	websiteID, err := linkopp.ParseWebsiteID(c.Query("websiteId"))
	if err != nil {
		Error(c, err)
		return
	}
	filter.WebsiteID = websiteID

	opps, err := s.opportunities.FindOpportunities(c.Request.Context(), filter)
	if err != nil {
		Error(c, err)
		return
	}

	// Snippets routinely contain characters HTML escaping would mangle.
	c.PureJSON(http.StatusOK, opps)
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	linkopp.ECONFLICT: http.StatusConflict,
	linkopp.EINVALID:  http.StatusBadRequest,
	linkopp.ENOTFOUND: http.StatusNotFound,
	linkopp.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code of an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// Error writes err as a JSON error response. Internal errors are attached
// to the context for the request logger and never exposed to the client.
func Error(c *gin.Context, err error) {
	code := linkopp.ErrorCode(err)
	if code == linkopp.EINTERNAL {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(ErrorStatusCode(code), gin.H{"error": linkopp.ErrorMessage(err)})
}
