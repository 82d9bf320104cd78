package olap

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/LilVoxy/coursework_retail/models"
)

// PivotTable представляет двумерную кросс-таблицу: сумма меры по парам
// (строковое измерение, колоночное измерение). Отсутствующие ячейки
// заполнены нулями, а не пропущены
type PivotTable struct {
	RowDimension    Dimension
	ColumnDimension Dimension
	Measure         Measure
	RowKeys         []string
	ColumnKeys      []string
	Cells           [][]decimal.Decimal // Cells[i][j] — строка i, колонка j
}

// Value возвращает значение ячейки по ключам строки и колонки
func (t *PivotTable) Value(rowKey, colKey string) decimal.Decimal {
	for i, rk := range t.RowKeys {
		if rk != rowKey {
			continue
		}
		for j, ck := range t.ColumnKeys {
			if ck == colKey {
				return t.Cells[i][j]
			}
		}
	}
	return decimal.Zero
}

// RowSum возвращает сумму всех колонок для строки
func (t *PivotTable) RowSum(rowKey string) decimal.Decimal {
	sum := decimal.Zero
	for i, rk := range t.RowKeys {
		if rk != rowKey {
			continue
		}
		for j := range t.ColumnKeys {
			sum = sum.Add(t.Cells[i][j])
		}
	}
	return sum
}

// ColumnSum возвращает сумму всех строк для колонки
func (t *PivotTable) ColumnSum(colKey string) decimal.Decimal {
	sum := decimal.Zero
	for j, ck := range t.ColumnKeys {
		if ck != colKey {
			continue
		}
		for i := range t.RowKeys {
			sum = sum.Add(t.Cells[i][j])
		}
	}
	return sum
}

// Pivot строит кросс-таблицу: сумма меры по двум измерениям.
// Ключи строк и колонок отсортированы, результат детерминирован
func Pivot(records []models.TransactionRecord, rowDim, colDim Dimension, measure Measure) (*PivotTable, error) {
	type cellKey struct {
		row string
		col string
	}

	cells := make(map[cellKey]decimal.Decimal)
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})

	for _, r := range records {
		rowValue, err := dimensionValue(r, rowDim)
		if err != nil {
			return nil, err
		}
		colValue, err := dimensionValue(r, colDim)
		if err != nil {
			return nil, err
		}

		key := cellKey{row: rowValue, col: colValue}
		cells[key] = cells[key].Add(measureValue(r, measure))
		rowSet[rowValue] = struct{}{}
		colSet[colValue] = struct{}{}
	}

	rowKeys := make([]string, 0, len(rowSet))
	for key := range rowSet {
		rowKeys = append(rowKeys, key)
	}
	sort.Strings(rowKeys)

	colKeys := make([]string, 0, len(colSet))
	for key := range colSet {
		colKeys = append(colKeys, key)
	}
	sort.Strings(colKeys)

	// Заполняем таблицу, отсутствующие ячейки остаются нулевыми
	table := &PivotTable{
		RowDimension:    rowDim,
		ColumnDimension: colDim,
		Measure:         measure,
		RowKeys:         rowKeys,
		ColumnKeys:      colKeys,
		Cells:           make([][]decimal.Decimal, len(rowKeys)),
	}
	for i, rowKey := range rowKeys {
		table.Cells[i] = make([]decimal.Decimal, len(colKeys))
		for j, colKey := range colKeys {
			table.Cells[i][j] = cells[cellKey{row: rowKey, col: colKey}]
		}
	}

	return table, nil
}
