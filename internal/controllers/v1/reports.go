package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saude-emendas/backend/internal/filter"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/httputil"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/internal/repository"
	"github.com/saude-emendas/backend/internal/summary"
)

func RegisterReportRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsReports)
		r.GET("", GetReports)
	}
	{
		r.OPTIONS("/summary", OptionsReportSummary)
		r.GET("/summary", GetReportSummary)
	}
	{
		r.OPTIONS("/pending", OptionsReportPending)
		r.GET("/pending", GetReportPending)
	}
}

type ReportLinks struct {
	Summary string `json:"summary" example:"https://example.com/api/v1/reports/summary"` // Financial summary by group and month
	Pending string `json:"pending" example:"https://example.com/api/v1/reports/pending"` // Amendments by pending item
}

type ReportsResponse struct {
	Links ReportLinks `json:"links"`
}

// ReportQuery selects the amendments a report covers.
type ReportQuery struct {
	Ano int `form:"ano" example:"2024"` // Only amendments of this budget year. All years when not set.
}

// FormattedTotals are the values of Totals formatted in Brazilian reais.
type FormattedTotals struct {
	Total   string `json:"total" example:"R$ 20.000,00"`
	Paid    string `json:"paid" example:"R$ 8.000,00"`
	Pending string `json:"pending" example:"R$ 12.000,00"`
}

type GroupTotals struct {
	summary.Totals
	Formatted FormattedTotals `json:"formatted"`
}

func newGroupTotals(t summary.Totals) GroupTotals {
	return GroupTotals{
		Totals: t,
		Formatted: FormattedTotals{
			Total:   summary.FormatBRL(t.Total),
			Paid:    summary.FormatBRL(t.Paid),
			Pending: summary.FormatBRL(t.Pending),
		},
	}
}

type Summary struct {
	Groups    []GroupTotals          `json:"groups"`    // Totals per resource group
	Overall   GroupTotals            `json:"overall"`   // Totals of all groups
	Months    []summary.MonthTotals  `json:"months"`    // Money moved per month, oldest first
	Dashboard filter.DashboardTotals `json:"dashboard"` // Totals of all amendments
}

type SummaryResponse struct {
	Error *string  `json:"error" example:"there is no amendment matching your query"` // The error, if any occurred
	Data  *Summary `json:"data"`                                                      // The summary
}

type PendingResponse struct {
	Error *string         `json:"error" example:"there is no amendment matching your query"` // The error, if any occurred
	Data  []filter.Bucket `json:"data"`                                                      // Amendment IDs per pending kind
}

// reportRecords returns the records the report covers.
func reportRecords(c *gin.Context) ([]filter.Record, error) {
	var query ReportQuery
	if err := c.Bind(&query); err != nil {
		return nil, err
	}

	records, err := repository.Records(requestContext(c), store(c))
	if err != nil {
		return nil, err
	}

	if query.Ano == 0 {
		return records, nil
	}

	selected := make([]filter.Record, 0, len(records))
	for _, r := range records {
		if r.Amendment.Ano == query.Ano {
			selected = append(selected, r)
		}
	}

	return selected, nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports [options]
func OptionsReports(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/summary [options]
func OptionsReportSummary(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/pending [options]
func OptionsReportPending(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Reports
// @Description	Returns links to the available reports
// @Tags			Reports
// @Success		200	{object}	ReportsResponse
// @Router			/v1/reports [get]
func GetReports(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, ReportsResponse{
		Links: ReportLinks{
			Summary: url + "/v1/reports/summary",
			Pending: url + "/v1/reports/pending",
		},
	})
}

// @Summary		Financial summary
// @Description	Returns the totals per resource group, the money moved per month and the dashboard totals
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	SummaryResponse
// @Failure		400	{object}	SummaryResponse
// @Failure		500	{object}	SummaryResponse
// @Param			ano	query		int	false	"Only amendments of this budget year"
// @Router			/v1/reports/summary [get]
func GetReportSummary(c *gin.Context) {
	records, err := reportRecords(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SummaryResponse{
			Error: &e,
		})
		return
	}

	amendments := make([]models.Amendment, 0, len(records))
	var transfers []models.Transfer
	var expenses []models.Expense
	for _, r := range records {
		amendments = append(amendments, r.Amendment)
		transfers = append(transfers, r.Transfers...)
		expenses = append(expenses, r.Expenses...)
	}

	totals := summary.Summarize(summary.DefaultGroups, amendments, transfers, expenses)
	groups := make([]GroupTotals, 0, len(totals))
	for _, t := range totals {
		groups = append(groups, newGroupTotals(t))
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Data: &Summary{
			Groups:    groups,
			Overall:   newGroupTotals(summary.Overall(totals)),
			Months:    summary.ByMonth(transfers, expenses),
			Dashboard: filter.Totals(records),
		},
	})
}

// @Summary		Pending items
// @Description	Returns the IDs of the amendments with each kind of pending item
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	PendingResponse
// @Failure		400	{object}	PendingResponse
// @Failure		500	{object}	PendingResponse
// @Param			ano	query		int	false	"Only amendments of this budget year"
// @Router			/v1/reports/pending [get]
func GetReportPending(c *gin.Context) {
	records, err := reportRecords(c)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), PendingResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, PendingResponse{
		Data: filter.PendingBuckets(records),
	})
}
