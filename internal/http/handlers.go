package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"waypoint/internal/domain"
)

// routeView is the JSON form of a compiled route.
type routeView struct {
	Name     string   `json:"name"`
	Template string   `json:"template"`
	Segments []string `json:"segments"`
	Ranking  int64    `json:"ranking"`
	Nested   bool     `json:"nested"`
}

// navigateRequest is the body of POST /_router/navigate.
type navigateRequest struct {
	Route   string                 `json:"route" binding:"required"`
	Params  map[string]interface{} `json:"params"`
	Replace bool                   `json:"replace"`
}

// listRoutesHandler handles GET /_router/routes
func (s *Server) listRoutesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		matchers := s.router.Matchers()
		routes := make([]routeView, len(matchers))
		for i, m := range matchers {
			segments := make([]string, len(m.Segments))
			for j, segment := range m.Segments {
				segments[j] = segment.String()
			}
			routes[i] = routeView{
				Name:     m.Name,
				Template: m.Template,
				Segments: segments,
				Ranking:  m.Ranking,
				Nested:   m.IsNested,
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"routes": routes,
		})
	}
}

// locationHandler handles GET /_router/location
func (s *Server) locationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.locationBody())
	}
}

// matchHandler handles GET /_router/match?route=a&route=b. Without route
// names every route is considered.
func (s *Server) matchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			match domain.MatchResult
			ok    bool
		)
		if names := c.QueryArray("route"); len(names) > 0 {
			match, ok = s.router.Route(names...)
		} else {
			match, ok = s.router.Current()
		}

		body := gin.H{"matched": ok, "url": s.router.Location().URL}
		if ok {
			body["route"] = match
		}
		c.JSON(http.StatusOK, body)
	}
}

// navigateHandler handles POST /_router/navigate
func (s *Server) navigateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input navigateRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			s.logger.WithError(err).Warn("Invalid navigation JSON")
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "INVALID_JSON",
					"message": "Invalid JSON format",
					"details": gin.H{"error": err.Error()},
				},
			})
			return
		}

		navigate := s.router.Navigate
		if input.Replace {
			navigate = s.router.Replace
		}
		if err := navigate(input.Route, input.Params); err != nil {
			s.logger.WithError(err).Warnf("Failed to navigate to %s", input.Route)
			s.buildError(c, input.Route, err)
			return
		}

		c.JSON(http.StatusOK, s.locationBody())
	}
}

// backHandler handles POST /_router/back
func (s *Server) backHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.router.GoBack()
		c.JSON(http.StatusOK, s.locationBody())
	}
}

// forwardHandler handles POST /_router/forward
func (s *Server) forwardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.router.GoForward()
		c.JSON(http.StatusOK, s.locationBody())
	}
}

// createURLHandler handles GET /_router/url/:route. Query values are decoded
// with the search codec and used as params.
func (s *Server) createURLHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("route")
		params := domain.DecodeSearch(c.Request.URL.RawQuery).Params()

		url, err := s.router.CreateURL(name, params)
		if err != nil {
			s.buildError(c, name, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"route": name,
			"url":   url,
		})
	}
}

// historyHandler handles GET /_router/history
func (s *Server) historyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"entries": s.history.Entries(),
			"index":   s.history.Index(),
		})
	}
}

// infoHandler handles GET /_router/info
func (s *Server) infoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":       s.config.Name,
			"basePath":   s.router.BasePath(),
			"port":       s.config.Port,
			"routeCount": len(s.router.Matchers()),
			"entries":    s.history.Len(),
			"uptime":     formatUptime(s.GetUptime()),
		})
	}
}

// resolveHandler handles every path outside the inspector by matching it
// against the route table without navigating.
func (s *Server) resolveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.RequestURI()

		match, ok := s.router.Resolve(path)
		if !ok {
			s.logger.WarnNoMatch(path)
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "NO_ROUTE_MATCH",
					"message": "No matching route found",
					"details": gin.H{
						"method": c.Request.Method,
						"path":   path,
					},
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"route": match,
		})
	}
}

func (s *Server) locationBody() gin.H {
	body := gin.H{"location": s.router.Location()}
	if match, ok := s.router.Current(); ok {
		body["route"] = match
	}
	return body
}

// buildError writes the response for a failed URL build.
func (s *Server) buildError(c *gin.Context, route string, err error) {
	status, code := http.StatusBadRequest, "INVALID_PARAMS"
	if errors.Is(err, domain.ErrUnknownRoute) {
		status, code = http.StatusNotFound, "ROUTE_NOT_FOUND"
	}

	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
			"details": gin.H{"route": route},
		},
	})
}

// formatUptime formats a duration into a human-readable string
func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
