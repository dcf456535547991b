package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"wineshop/internal/apperr"
	"wineshop/internal/domain"
	"wineshop/internal/service"
)

func TestExportProducts(t *testing.T) {
	r := newTestRepos(t)
	excel := service.NewExcelService(r, 100, zap.NewNop())
	ctx := context.Background()

	mustCreateProduct(t, r, "Nebbiolo", 35.0, 12)
	mustCreateProduct(t, r, "Vermentino", 16.0, 30)

	data, err := excel.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	file, err := xlsx.OpenBinary(data)
	if err != nil {
		t.Fatalf("reopen exported file: %v", err)
	}
	sheet := file.Sheets[0]
	// 表头 + 两行数据
	if len(sheet.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0].Cells[1].String() != "Name" {
		t.Fatalf("unexpected header: %q", sheet.Rows[0].Cells[1].String())
	}
	if sheet.Rows[1].Cells[1].String() != "Nebbiolo" {
		t.Fatalf("unexpected first row: %q", sheet.Rows[1].Cells[1].String())
	}
}

func buildImportFile(t *testing.T, rows [][]string) []byte {
	t.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		t.Fatalf("add sheet: %v", err)
	}
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetValue(v)
		}
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return buf.Bytes()
}

func waitForTask(t *testing.T, excel *service.ExcelService, id uint64) *domain.ImportTask {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		task, err := excel.TaskStatus(context.Background(), id)
		if err != nil {
			t.Fatalf("task status: %v", err)
		}
		if task.Status != domain.ImportStatusProcessing {
			return task
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("import task did not finish in time")
	return nil
}

func TestImportProducts(t *testing.T) {
	r := newTestRepos(t)
	excel := service.NewExcelService(r, 100, zap.NewNop())
	ctx := context.Background()

	cat := &domain.Category{Name: "Red"}
	if err := r.Categories.Create(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}

	data := buildImportFile(t, [][]string{
		{"ID", "Name", "Description", "Price", "Stock Quantity", "Alcohol %", "Volume", "Origin", "Image URL", "Categories"},
		{"", "Merlot", "soft red", "19.5", "40", "13.5", "750", "France", "", "Red"},
		{"", "Dolcetto", "", "14", "25", "12.5", "750", "Italy", "", ""},
	})

	task, err := excel.StartImport(ctx, "products.xlsx", data)
	if err != nil {
		t.Fatalf("start import: %v", err)
	}
	if task.Status != domain.ImportStatusProcessing {
		t.Fatalf("expected PROCESSING, got %s", task.Status)
	}

	done := waitForTask(t, excel, task.ID)
	if done.Status != domain.ImportStatusSuccess {
		t.Fatalf("expected SUCCESS, got %s (%s)", done.Status, done.ErrorMessage)
	}

	ps, total, err := r.Products.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 imported products, got %d", total)
	}
	for _, p := range ps {
		if p.Name == "Merlot" && (len(p.Categories) != 1 || p.Categories[0].Name != "Red") {
			t.Fatalf("expected Merlot linked to Red, got %+v", p.Categories)
		}
	}
}

func TestImportAccumulatesRowFailures(t *testing.T) {
	r := newTestRepos(t)
	excel := service.NewExcelService(r, 100, zap.NewNop())
	ctx := context.Background()

	data := buildImportFile(t, [][]string{
		{"ID", "Name", "Description", "Price", "Stock Quantity", "Categories"},
		{"", "", "", "10", "5", ""},               // 缺名字
		{"", "Valid Wine", "", "12", "5", ""},     // 正常
		{"", "Bad Price", "", "abc", "5", ""},     // 价格非法
		{"", "Bad Stock", "", "9", "-3", ""},      // 库存非法
		{"", "Unknown Cat", "", "9", "3", "Nope"}, // 分类不存在
	})

	task, err := excel.StartImport(ctx, "mixed.xlsx", data)
	if err != nil {
		t.Fatalf("start import: %v", err)
	}
	// 坏行跳过不拦任务，整体仍算成功，跳过明细留在消息里
	done := waitForTask(t, excel, task.ID)
	if done.Status != domain.ImportStatusSuccess {
		t.Fatalf("expected SUCCESS despite row errors, got %s (%s)", done.Status, done.ErrorMessage)
	}
	if !strings.Contains(done.ErrorMessage, "4 rows skipped") {
		t.Fatalf("expected skipped-row summary, got %q", done.ErrorMessage)
	}

	// 好行照常入库
	_, total, err := r.Products.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected only the valid row inserted, got %d", total)
	}
}

func TestImportEmptyFile(t *testing.T) {
	r := newTestRepos(t)
	excel := service.NewExcelService(r, 100, zap.NewNop())
	ctx := context.Background()

	if _, err := excel.StartImport(ctx, "empty.xlsx", nil); !errors.Is(err, apperr.ImportFileEmpty) {
		t.Fatalf("expected ImportFileEmpty, got %v", err)
	}

	// 只有表头的文件任务标 FAILED
	data := buildImportFile(t, [][]string{
		{"ID", "Name", "Description", "Price", "Stock Quantity"},
	})
	task, err := excel.StartImport(ctx, "header-only.xlsx", data)
	if err != nil {
		t.Fatalf("start import: %v", err)
	}
	done := waitForTask(t, excel, task.ID)
	if done.Status != domain.ImportStatusFailed {
		t.Fatalf("expected FAILED for header-only file, got %s", done.Status)
	}
}
