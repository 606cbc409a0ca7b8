package utils

import (
	"errors"
	"fmt"
	"hrc/src/db"
	"hrc/src/models"
	"hrc/src/models/scopes"
	"hrc/src/types"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", types.ErrNotFound, what, id)
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ListServices returns services with their variants. Public callers only see
// active ones.
func ListServices(activeOnly bool) ([]models.Service, error) {
	db := db.GetDb()
	var services []models.Service
	q := db.Model(&models.Service{})
	if activeOnly {
		q = q.
			Scopes(scopes.Active).
			Preload("Variants", func(db *gorm.DB) *gorm.DB {
				return db.Scopes(scopes.Active).Order("price asc")
			})
	} else {
		q = q.Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("price asc")
		})
	}
	err := q.Order("name asc").Find(&services).Error
	return services, err
}

func GetService(id uint, activeOnly bool) (*models.Service, error) {
	db := db.GetDb()
	var service models.Service
	q := db.Model(&models.Service{})
	if activeOnly {
		q = q.Scopes(scopes.Active).Preload("Variants", scopes.Active)
	} else {
		q = q.Preload("Variants")
	}
	if err := q.First(&service, id).Error; err != nil {
		return nil, notFound(err, "service", id)
	}
	return &service, nil
}

func CreateService(params *types.ServiceRequestBody, actorID *uint) (*models.Service, error) {
	db := db.GetDb()
	service := models.Service{
		Name:          params.Name,
		Description:   optional(params.Description),
		Price:         round2(params.Price),
		DurationHours: params.DurationHours,
		ImageURL:      optional(params.ImageURL),
		IsActive:      true,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&service).Error; err != nil {
			return err
		}
		return WriteAuditLog(tx, actorID, "Created service", "services", fmt.Sprint(service.ID), service.Name)
	})
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func UpdateService(id uint, params *types.ServiceRequestBody, actorID *uint) (*models.Service, error) {
	db := db.GetDb()
	var service models.Service
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&service, id).Error; err != nil {
			return notFound(err, "service", id)
		}
		service.Name = params.Name
		service.Description = optional(params.Description)
		service.Price = round2(params.Price)
		service.DurationHours = params.DurationHours
		service.ImageURL = optional(params.ImageURL)
		if err := tx.Save(&service).Error; err != nil {
			return err
		}
		return WriteAuditLog(tx, actorID, "Updated service", "services", fmt.Sprint(service.ID), service.Name)
	})
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// DeactivateService hides a service from guests. Bookings keep referring to
// it, so the row stays.
func DeactivateService(id uint, actorID *uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Service{}).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: service %d", types.ErrNotFound, id)
		}
		return WriteAuditLog(tx, actorID, "Deactivated service", "services", fmt.Sprint(id), "")
	})
}

func ListVariants(serviceId uint) ([]models.Variant, error) {
	db := db.GetDb()
	var variants []models.Variant
	err := db.
		Model(&models.Variant{}).
		Where("service_id = ?", serviceId).
		Order("price asc").
		Find(&variants).
		Error
	return variants, err
}

func CreateVariant(serviceId uint, params *types.VariantRequestBody, actorID *uint) (*models.Variant, error) {
	db := db.GetDb()
	variant := models.Variant{
		ServiceID:     serviceId,
		Name:          params.Name,
		Price:         round2(params.Price),
		DurationHours: params.DurationHours,
		IsActive:      true,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Service{}, serviceId).Error; err != nil {
			return notFound(err, "service", serviceId)
		}
		if err := tx.Create(&variant).Error; err != nil {
			return err
		}
		return WriteAuditLog(tx, actorID, "Created variant", "service_variants", fmt.Sprint(variant.ID), variant.Name)
	})
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func DeactivateVariant(serviceId uint, variantId uint, actorID *uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Variant{}).
			Where("id = ? AND service_id = ?", variantId, serviceId).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: variant %d", types.ErrNotFound, variantId)
		}
		return WriteAuditLog(tx, actorID, "Deactivated variant", "service_variants", fmt.Sprint(variantId), "")
	})
}

// ListAvailability returns slots from the given date on, or from today when
// from is zero.
func ListAvailability(from time.Time) ([]models.Availability, error) {
	db := db.GetDb()
	var slots []models.Availability
	err := db.
		Model(&models.Availability{}).
		Preload("Service").
		Where("date >= ?", CalendarDate(from)).
		Order("date asc").
		Find(&slots).
		Error
	return slots, err
}

// UpsertAvailability creates the slot for a service and date, or updates its
// capacity and open flag when one exists.
func UpsertAvailability(params *types.AvailabilityRequestBody, actorID *uint) (*models.Availability, error) {
	date, err := ParseDate(params.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}
	if params.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", types.ErrValidation)
	}
	isOpen := true
	if params.IsOpen != nil {
		isOpen = *params.IsOpen
	}
	db := db.GetDb()
	var slot models.Availability
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Service{}, params.ServiceID).Error; err != nil {
			return notFound(err, "service", params.ServiceID)
		}
		row := models.Availability{
			ServiceID: params.ServiceID,
			Date:      date,
			Capacity:  params.Capacity,
			IsOpen:    isOpen,
		}
		err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "service_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"capacity", "is_open", "updated_at"}),
			}).
			Create(&row).
			Error
		if err != nil {
			return err
		}
		if err := tx.Where("service_id = ? AND date = ?", params.ServiceID, date).First(&slot).Error; err != nil {
			return err
		}
		return WriteAuditLog(tx, actorID, "Saved availability", "availability", fmt.Sprint(slot.ID), fmt.Sprintf("%s capacity %d", params.Date, params.Capacity))
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func UpdateAvailability(id uint, params *types.UpdateAvailabilityRequestBody, actorID *uint) (*models.Availability, error) {
	db := db.GetDb()
	var slot models.Availability
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&slot, id).Error; err != nil {
			return notFound(err, "availability", id)
		}
		if params.Date != "" {
			date, err := ParseDate(params.Date)
			if err != nil {
				return fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
			}
			slot.Date = date
		}
		slot.Capacity = params.Capacity
		if params.IsOpen != nil {
			slot.IsOpen = *params.IsOpen
		}
		if err := tx.Save(&slot).Error; err != nil {
			return err
		}
		return WriteAuditLog(tx, actorID, "Updated availability", "availability", fmt.Sprint(slot.ID), fmt.Sprintf("capacity %d", slot.Capacity))
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// DeleteAvailability removes a slot nobody holds. Slots with locked or
// confirmed bookings report ErrInUse and should be closed instead.
func DeleteAvailability(id uint, actorID *uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		var slot models.Availability
		if err := tx.First(&slot, id).Error; err != nil {
			return notFound(err, "availability", id)
		}
		held, err := CountHolding(tx, slot.ID)
		if err != nil {
			return err
		}
		if held[slot.ID] > 0 {
			return fmt.Errorf("%w: %d booking(s) on %s", types.ErrInUse, held[slot.ID], FormatDate(slot.Date))
		}
		err = tx.
			Model(&models.Booking{}).
			Where("availability_id = ?", slot.ID).
			Update("availability_id", nil).
			Error
		if err != nil {
			return err
		}
		if err := tx.Delete(&slot).Error; err != nil {
			return err
		}
		return WriteAuditLog(tx, actorID, "Deleted availability", "availability", fmt.Sprint(id), FormatDate(slot.Date))
	})
}

func ListClosedDates() ([]models.ClosedDate, error) {
	return GetClosedDates(db.GetDb())
}

func CreateClosedDate(params *types.ClosedDateRequestBody, actorID *uint) (*models.ClosedDate, error) {
	closure := models.ClosedDate{
		Type:   params.Type,
		Reason: optional(params.Reason),
	}
	switch params.Type {
	case types.CLOSURE_SPECIFIC:
		date, err := ParseDate(params.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
		}
		closure.Date = &date
	case types.CLOSURE_RECURRING:
		if params.DayOfWeek == nil || *params.DayOfWeek < 0 || *params.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: day_of_week must be between 0 and 6", types.ErrValidation)
		}
		closure.DayOfWeek = params.DayOfWeek
	default:
		return nil, fmt.Errorf("%w: unknown closure type %q", types.ErrValidation, params.Type)
	}
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&closure).Error; err != nil {
			return err
		}
		return WriteAuditLog(tx, actorID, "Created closed date", "closed_dates", fmt.Sprint(closure.ID), params.Reason)
	})
	if err != nil {
		return nil, err
	}
	return &closure, nil
}

func DeleteClosedDate(id uint, actorID *uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.ClosedDate{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: closed date %d", types.ErrNotFound, id)
		}
		return WriteAuditLog(tx, actorID, "Deleted closed date", "closed_dates", fmt.Sprint(id), "")
	})
}
