package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"wineshop/internal/apperr"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
)

// exportHeaders 导出列顺序即导入模板，导入按表头名定位不靠列序
var exportHeaders = []string{
	"ID", "Name", "Description", "Price", "Stock Quantity",
	"Alcohol %", "Volume", "Origin", "Image URL", "Categories",
}

// ExcelService 商品目录批量导入导出；导入在后台执行，状态落 import_tasks
type ExcelService struct {
	repos     *repo.Repository
	batchSize int
	log       *zap.Logger
}

func NewExcelService(repos *repo.Repository, batchSize int, log *zap.Logger) *ExcelService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ExcelService{repos: repos, batchSize: batchSize, log: log}
}

// Export 全量在售商品导出为 xlsx 字节流
func (s *ExcelService) Export(ctx context.Context) ([]byte, error) {
	products, err := s.repos.Products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, apperr.ExcelExportFail
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.StockQuantity)
		row.AddCell().SetValue(p.AlcoholPercentage)
		row.AddCell().SetValue(p.Volume)
		row.AddCell().SetValue(p.Origin)
		row.AddCell().SetValue(p.ImageURL)

		var names []string
		for _, c := range p.Categories {
			names = append(names, c.Name)
		}
		row.AddCell().SetValue(strings.Join(names, ", "))
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, apperr.ExcelExportFail
	}
	return buf.Bytes(), nil
}

// StartImport 建 PROCESSING 任务后立刻返回任务号，解析入库在后台跑
func (s *ExcelService) StartImport(ctx context.Context, fileName string, data []byte) (*domain.ImportTask, error) {
	if len(data) == 0 {
		return nil, apperr.ImportFileEmpty
	}
	task := &domain.ImportTask{
		FileName:  fileName,
		Status:    domain.ImportStatusProcessing,
		StartedAt: time.Now(),
	}
	if err := s.repos.ImportTasks.Create(ctx, task); err != nil {
		return nil, err
	}

	go s.runImport(task.ID, data)
	return task, nil
}

// ListTasks 近期导入任务，按开始时间倒序
func (s *ExcelService) ListTasks(ctx context.Context, offset, limit int) ([]domain.ImportTask, int64, error) {
	return s.repos.ImportTasks.List(ctx, offset, limit)
}

func (s *ExcelService) TaskStatus(ctx context.Context, id uint64) (*domain.ImportTask, error) {
	t, err := s.repos.ImportTasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.TaskNotFound
	}
	return t, nil
}

// runImport 独立 context，不随上传请求取消
func (s *ExcelService) runImport(taskID uint64, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	failures, err := s.importProducts(ctx, data)

	task, ferr := s.repos.ImportTasks.FindByID(ctx, taskID)
	if ferr != nil || task == nil {
		s.log.Error("import task lookup failed", zap.Uint64("task_id", taskID), zap.Error(ferr))
		return
	}

	now := time.Now()
	task.FinishedAt = &now
	// 坏行只记账不拦任务；FAILED 留给文件级错误
	if err != nil {
		task.Status = domain.ImportStatusFailed
		task.ErrorMessage = err.Error()
	} else {
		task.Status = domain.ImportStatusSuccess
		if len(failures) > 0 {
			task.ErrorMessage = fmt.Sprintf("%d rows skipped: %s", len(failures), strings.Join(failures, "; "))
			s.log.Warn("import finished with skipped rows",
				zap.Uint64("task_id", taskID), zap.Int("skipped", len(failures)))
		}
	}
	if e := s.repos.ImportTasks.Update(ctx, task); e != nil {
		s.log.Error("import task update failed", zap.Uint64("task_id", taskID), zap.Error(e))
	}
}

// importProducts 表头名定位列；坏行逐条记账继续，整文件级错误直接返回
func (s *ExcelService) importProducts(ctx context.Context, data []byte) ([]string, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, apperr.ExcelImportFail
	}
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return nil, apperr.ImportFileEmpty
	}
	sheet := file.Sheets[0]

	col := map[string]int{}
	for i, cell := range sheet.Rows[0].Cells {
		col[strings.TrimSpace(cell.String())] = i
	}
	for _, h := range []string{"Name", "Price", "Stock Quantity"} {
		if _, ok := col[h]; !ok {
			return nil, apperr.ExcelImportFail
		}
	}

	get := func(row *xlsx.Row, header string) string {
		i, ok := col[header]
		if !ok || i >= len(row.Cells) {
			return ""
		}
		return strings.TrimSpace(row.Cells[i].String())
	}

	var (
		failures []string
		batch    []domain.Product
	)
	for rowIdx := 1; rowIdx < len(sheet.Rows); rowIdx++ {
		row := sheet.Rows[rowIdx]
		if row == nil || len(row.Cells) == 0 {
			continue
		}
		lineNo := rowIdx + 1

		name := get(row, "Name")
		if name == "" {
			failures = append(failures, fmt.Sprintf("row %d: name is required", lineNo))
			continue
		}
		price, err := strconv.ParseFloat(get(row, "Price"), 64)
		if err != nil || price <= 0 {
			failures = append(failures, fmt.Sprintf("row %d: invalid price", lineNo))
			continue
		}
		stock, err := strconv.Atoi(get(row, "Stock Quantity"))
		if err != nil || stock < 0 {
			failures = append(failures, fmt.Sprintf("row %d: invalid stock quantity", lineNo))
			continue
		}

		p := domain.Product{
			Name:          name,
			Description:   get(row, "Description"),
			ImageURL:      get(row, "Image URL"),
			Price:         price,
			Origin:        get(row, "Origin"),
			StockQuantity: stock,
		}
		if v := get(row, "Volume"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 50 {
				failures = append(failures, fmt.Sprintf("row %d: invalid volume", lineNo))
				continue
			}
			p.Volume = n
		}
		if v := get(row, "Alcohol %"); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil || n < 0 || n > 100 {
				failures = append(failures, fmt.Sprintf("row %d: invalid alcohol percentage", lineNo))
				continue
			}
			p.AlcoholPercentage = n
		}
		if v := get(row, "Categories"); v != "" {
			var names []string
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					names = append(names, part)
				}
			}
			cs, err := s.repos.Categories.FindByNames(ctx, names)
			if err != nil {
				return failures, err
			}
			if len(cs) != len(names) {
				failures = append(failures, fmt.Sprintf("row %d: unknown category", lineNo))
				continue
			}
			p.Categories = cs
		}

		batch = append(batch, p)
	}

	if len(batch) > 0 {
		if err := s.repos.Products.CreateInBatches(ctx, batch, s.batchSize); err != nil {
			return failures, err
		}
	}
	return failures, nil
}
