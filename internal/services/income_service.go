package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Income aggregation always inner-joins production to prices: unpriced
// products never contribute to income figures. Only the production
// listing keeps them, via its outer join.

// MonthlyIncomeRecord is one month of income broken out per configured
// product, plus a total over every priced product in that month. Products
// outside the configured set keep contributing to Total but get no column
// of their own.
type MonthlyIncomeRecord struct {
	Month    string
	Products map[string]float64
	Total    float64

	order []string
}

// MarshalJSON renders the record as a flat object: month, one field per
// configured product, then total.
func (r MonthlyIncomeRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"month":`)
	month, err := json.Marshal(r.Month)
	if err != nil {
		return nil, err
	}
	buf.Write(month)
	for _, product := range r.order {
		key, err := json.Marshal(product)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(r.Products[product])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteString(`,"total":`)
	total, err := json.Marshal(r.Total)
	if err != nil {
		return nil, err
	}
	buf.Write(total)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ProductMonthIncome is one (month, product) subtotal.
type ProductMonthIncome struct {
	Month   string  `json:"month"`
	Product string  `json:"product"`
	Total   float64 `json:"total"`
}

// MonthIncome is a single month's income figure.
type MonthIncome struct {
	Month  string  `json:"month"`
	Income float64 `json:"income"`
}

type monthProductRow struct {
	Month   string
	Product string
	Income  float64
}

// MonthlyIncome groups the farm's priced production by month and product
// and reshapes the rows into one record per month, months ascending.
func MonthlyIncome(db *gorm.DB, farmID uint, products []string) ([]MonthlyIncomeRecord, error) {
	mexpr := monthExpr(db, "p.date")

	var rows []monthProductRow
	err := db.Table("production p").
		Select(mexpr+" AS month, p.product AS product, SUM(p.quantity * pr.price) AS income").
		Joins("JOIN prices pr ON pr.product = p.product AND pr.farm_id = p.farm_id").
		Where("p.farm_id = ?", farmID).
		Group(mexpr + ", p.product").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	configured := make(map[string]bool, len(products))
	for _, p := range products {
		configured[p] = true
	}

	records := []MonthlyIncomeRecord{}
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.Month]
		if !ok {
			record := MonthlyIncomeRecord{
				Month:    row.Month,
				Products: make(map[string]float64, len(products)),
				order:    products,
			}
			for _, p := range products {
				record.Products[p] = 0
			}
			i = len(records)
			index[row.Month] = i
			records = append(records, record)
		}

		product := strings.ToLower(row.Product)
		if configured[product] {
			records[i].Products[product] = row.Income
		}
		records[i].Total += row.Income
	}

	return records, nil
}

// CurrentMonthTotal sums quantity x price over the current calendar
// month. An empty month is a zero total, not an error.
func CurrentMonthTotal(db *gorm.DB, farmID uint) (float64, error) {
	return incomeTotal(db, farmID, monthExpr(db, "p.date"), time.Now().Format("2006-01"))
}

// TodayTotal sums quantity x price over today's calendar date.
func TodayTotal(db *gorm.DB, farmID uint) (float64, error) {
	return incomeTotal(db, farmID, dateExpr(db, "p.date"), time.Now().Format("2006-01-02"))
}

func incomeTotal(db *gorm.DB, farmID uint, expr, period string) (float64, error) {
	var res struct {
		Total float64
	}
	err := db.Table("production p").
		Select("COALESCE(SUM(p.quantity * pr.price), 0) AS total").
		Joins("JOIN prices pr ON pr.product = p.product AND pr.farm_id = p.farm_id").
		Where("p.farm_id = ?", farmID).
		Where(expr+" = ?", period).
		Scan(&res).Error
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// IncomeByProductMonthly returns one subtotal per (month, product),
// ordered by month then product.
func IncomeByProductMonthly(db *gorm.DB, farmID uint) ([]ProductMonthIncome, error) {
	mexpr := monthExpr(db, "p.date")

	rows := []ProductMonthIncome{}
	err := db.Table("production p").
		Select(mexpr+" AS month, p.product AS product, SUM(p.quantity * pr.price) AS total").
		Joins("JOIN prices pr ON pr.product = p.product AND pr.farm_id = p.farm_id").
		Where("p.farm_id = ?", farmID).
		Group(mexpr + ", p.product").
		Order("month ASC, p.product ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CurrentMonthIncomeByMonth is the month-grouped variant of the current
// month figure served under the prices API.
func CurrentMonthIncomeByMonth(db *gorm.DB, farmID uint) (MonthIncome, error) {
	mexpr := monthExpr(db, "p.date")
	month := time.Now().Format("2006-01")

	var rows []MonthIncome
	err := db.Table("production p").
		Select(mexpr+" AS month, SUM(p.quantity * pr.price) AS income").
		Joins("JOIN prices pr ON pr.product = p.product AND pr.farm_id = p.farm_id").
		Where("p.farm_id = ?", farmID).
		Where(mexpr+" = ?", month).
		Group(mexpr).
		Scan(&rows).Error
	if err != nil {
		return MonthIncome{}, err
	}
	if len(rows) == 0 {
		return MonthIncome{Month: month, Income: 0}, nil
	}
	return rows[0], nil
}

// TodayProductsCount counts the distinct products recorded today for the
// farm.
func TodayProductsCount(db *gorm.DB, farmID uint) (int64, error) {
	var res struct {
		Count int64
	}
	err := db.Table("production").
		Select("COUNT(DISTINCT product) AS count").
		Where("farm_id = ?", farmID).
		Where(dateExpr(db, "date")+" = ?", time.Now().Format("2006-01-02")).
		Scan(&res).Error
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}
