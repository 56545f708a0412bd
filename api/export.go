package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"expensehub/database"
	"expensehub/middleware"
	"expensehub/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	exporter *service.ExportService
}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{exporter: service.NewExportService(database.DB)}
}

// Export 导出账本消费
// @Summary 导出消费记录
// @Description format=xlsx（默认）导出 Excel，format=csv 导出带 BOM 的 CSV
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "账本ID"
// @Param format query string false "导出格式" Enums(xlsx, csv)
// @Success 200 {file} file "导出文件"
// @Failure 400 {object} Response "格式不支持"
// @Failure 403 {object} Response "无权访问"
// @Failure 404 {object} Response "账本不存在"
// @Router /api/v1/items/{id}/expenses/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	itemID := c.Param("id")

	switch format := c.DefaultQuery("format", "xlsx"); format {
	case "csv":
		filename, data, err := h.exporter.ExportCSV(c.Request.Context(), userID, itemID)
		if err != nil {
			RespondError(c, err, "生成 CSV 失败")
			return
		}
		setAttachment(c, filename)
		c.Header("Content-Length", fmt.Sprintf("%d", len(data)))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	case "xlsx":
		// 先写入缓冲区，出错时仍可返回 JSON 错误
		buf := new(bytes.Buffer)
		filename, err := h.exporter.ExportXLSX(c.Request.Context(), userID, itemID, buf)
		if err != nil {
			RespondError(c, err, "生成 Excel 失败")
			return
		}
		setAttachment(c, filename)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		BadRequest(c, "不支持的导出格式: "+format)
	}
}

func setAttachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
}
