package repository

import (
	"backend/internal/app/ds"
)

// User/actor methods. The repository doubles as the orggraph directory.

func (r *Repository) GetUser(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByLogin(login string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("login = ?", login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserExistsByLogin(login string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("login = ?", login).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateUser(user *ds.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) UpdateUser(id uint, fullName, password *string) error {
	updates := map[string]interface{}{}
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if password != nil {
		updates["password"] = *password
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&ds.User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) ListSupervisees(supervisorID uint) ([]ds.User, error) {
	var users []ds.User
	err := r.db.Where("supervisor_id = ?", supervisorID).Find(&users).Error
	return users, err
}

func (r *Repository) UpdateSupervisor(subordinateID uint, supervisorID *uint) error {
	return r.db.Model(&ds.User{}).Where("id = ?", subordinateID).
		Update("supervisor_id", supervisorID).Error
}

func (r *Repository) UpdateLocation(userID uint, state, city string) error {
	return r.db.Model(&ds.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"assigned_state": state,
			"assigned_city":  city,
		}).Error
}
