package export

import (
	"fmt"
	"io"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Бронирования"

// Exporter выгружает бронирования в Excel для ручной сверки.
type Exporter struct {
	logger *zerolog.Logger
}

func NewExporter(logger *zerolog.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// WriteBookings пишет xlsx-отчет по всем бронированиям в w.
func (e *Exporter) WriteBookings(w io.Writer, bookings []*models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Вещь", "Владелец", "Арендатор", "Статус", "Начало", "Окончание"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(bookingsSheet, "A1", lastHeader, headerStyle)

	for i, booking := range bookings {
		row := i + 2
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), booking.ID)
		if booking.Item != nil {
			_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), booking.Item.Name)
			_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("C%d", row), booking.Item.OwnerID)
		}
		if booking.Booker != nil {
			_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("D%d", row), booking.Booker.Name)
		}
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("E%d", row), bookingStatusLabel(booking.Status))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("F%d", row), booking.Start.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(bookingsSheet, fmt.Sprintf("G%d", row), booking.End.Format("02.01.2006 15:04"))
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 8)
	_ = f.SetColWidth(bookingsSheet, "B", "D", 25)
	_ = f.SetColWidth(bookingsSheet, "E", "G", 18)

	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing file: %v", err)
	}

	e.logger.Info().Int("bookings", len(bookings)).Msg("bookings export created")
	return nil
}

// FileName возвращает имя файла выгрузки с отметкой времени.
func FileName(now time.Time) string {
	return fmt.Sprintf("bookings_export_%s.xlsx", now.Format("2006-01-02_15-04-05"))
}

func bookingStatusLabel(status string) string {
	switch status {
	case models.StatusWaiting:
		return "Ожидает подтверждения"
	case models.StatusApproved:
		return "Подтверждено"
	case models.StatusRejected:
		return "Отклонено"
	case models.StatusCanceled:
		return "Отменено"
	}
	return status
}
