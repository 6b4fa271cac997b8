package course

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderingStore maintains contiguous 1-based order_index values among
// siblings sharing one parent (chapters under a course, lessons under a
// chapter). Every mutation must run inside the caller's transaction; the
// sibling rows are locked first so two writers on the same parent cannot
// interleave and corrupt contiguity.
type OrderingStore struct{}

// lock takes row locks on the sibling set of the given parent. SQLite has
// no FOR UPDATE syntax; its single-writer transactions already serialize
// these mutations.
func (OrderingStore) lock(tx *gorm.DB, model interface{}, parentCol string, parentID uint) error {
	if tx.Dialector.Name() == "sqlite" {
		return nil
	}
	var ids []uint
	return tx.Model(model).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(parentCol+" = ?", parentID).
		Pluck("id", &ids).Error
}

// Append assigns the next free order (max+1, or 1 for an empty list) and
// returns it. The caller saves the new entity with the returned value.
func (s OrderingStore) Append(tx *gorm.DB, model interface{}, parentCol string, parentID uint) (int, error) {
	if err := s.lock(tx, model, parentCol, parentID); err != nil {
		return 0, err
	}

	var maxOrder int
	err := tx.Model(model).
		Where(parentCol+" = ?", parentID).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

// Move shifts the siblings between oldOrder and newOrder by one position and
// places the moved entity at newOrder. A stable shift, not a resort: moving
// down decrements (old, new], moving up increments [new, old).
func (s OrderingStore) Move(tx *gorm.DB, model interface{}, parentCol string, parentID, id uint, oldOrder, newOrder int) error {
	if newOrder == oldOrder {
		return nil
	}

	if err := s.lock(tx, model, parentCol, parentID); err != nil {
		return err
	}

	var total int64
	if err := tx.Model(model).Where(parentCol+" = ?", parentID).Count(&total).Error; err != nil {
		return err
	}
	if newOrder < 1 || int64(newOrder) > total {
		return fmt.Errorf("%w: order %d is out of range 1..%d", ErrValidation, newOrder, total)
	}

	if oldOrder < newOrder {
		err := tx.Model(model).
			Where(parentCol+" = ? AND order_index > ? AND order_index <= ?", parentID, oldOrder, newOrder).
			UpdateColumn("order_index", gorm.Expr("order_index - 1")).Error
		if err != nil {
			return err
		}
	} else {
		err := tx.Model(model).
			Where(parentCol+" = ? AND order_index >= ? AND order_index < ?", parentID, newOrder, oldOrder).
			UpdateColumn("order_index", gorm.Expr("order_index + 1")).Error
		if err != nil {
			return err
		}
	}

	return tx.Model(model).Where("id = ?", id).
		UpdateColumn("order_index", newOrder).Error
}

// Remove hard-deletes the entity and closes the gap by decrementing every
// sibling that followed it.
func (s OrderingStore) Remove(tx *gorm.DB, model interface{}, parentCol string, parentID, id uint, order int) error {
	if err := s.lock(tx, model, parentCol, parentID); err != nil {
		return err
	}

	if err := tx.Unscoped().Where("id = ?", id).Delete(model).Error; err != nil {
		return err
	}

	return tx.Model(model).
		Where(parentCol+" = ? AND order_index > ?", parentID, order).
		UpdateColumn("order_index", gorm.Expr("order_index - 1")).Error
}

// BulkReorder assigns order = position+1 following the given id sequence.
// Every id must exist and all of them must share one parent; the parent id
// is returned so the caller can reload the list. An empty sequence is a
// no-op.
func (s OrderingStore) BulkReorder(tx *gorm.DB, model interface{}, parentCol string, ids []uint) (uint, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	type siblingRow struct {
		ID       uint
		ParentID uint
	}
	var rows []siblingRow
	err := tx.Model(model).
		Select("id, "+parentCol+" AS parent_id").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}

	if len(rows) != len(ids) {
		return 0, fmt.Errorf("%w: one or more ids do not exist", ErrValidation)
	}

	parentID := rows[0].ParentID
	for _, row := range rows {
		if row.ParentID != parentID {
			return 0, fmt.Errorf("%w: ids span multiple parents", ErrValidation)
		}
	}

	if err := s.lock(tx, model, parentCol, parentID); err != nil {
		return 0, err
	}

	for i, id := range ids {
		err := tx.Model(model).Where("id = ?", id).
			UpdateColumn("order_index", i+1).Error
		if err != nil {
			return 0, err
		}
	}
	return parentID, nil
}
