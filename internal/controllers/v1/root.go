package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saude-emendas/backend/internal/httputil"
	"github.com/saude-emendas/backend/internal/models"
)

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.DELETE("", Cleanup)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Amendments   string `json:"amendments" example:"https://example.com/api/v1/amendments"`      // URL of Amendment collection endpoint
	Actions      string `json:"actions" example:"https://example.com/api/v1/actions"`            // URL of Action collection endpoint
	Destinations string `json:"destinations" example:"https://example.com/api/v1/destinations"`  // URL of Destination collection endpoint
	Expenses     string `json:"expenses" example:"https://example.com/api/v1/expenses"`          // URL of Expense collection endpoint
	Transfers    string `json:"transfers" example:"https://example.com/api/v1/transfers"`        // URL of Transfer collection endpoint
	Reports      string `json:"reports" example:"https://example.com/api/v1/reports"`            // URL of the reports endpoint
	AuditEntries string `json:"auditEntries" example:"https://example.com/api/v1/audit-entries"` // URL of Audit Entry collection endpoint
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Amendments:   url + "/v1/amendments",
			Actions:      url + "/v1/actions",
			Destinations: url + "/v1/destinations",
			Expenses:     url + "/v1/expenses",
			Transfers:    url + "/v1/transfers",
			Reports:      url + "/v1/reports",
			AuditEntries: url + "/v1/audit-entries",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}
