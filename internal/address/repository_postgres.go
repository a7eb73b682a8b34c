package address

import "database/sql"

// Table layout expected:
//   address_id serial primary key,
//   user_id int not null,
//   name text, phone text,
//   building text, street text, city text, state text, pincode text,
//   lat double precision, lng double precision,
//   is_default boolean not null default false,
//   created_at text, updated_at text

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectAddressesQuery = `
		SELECT address_id, user_id, name, phone, building, street, city, state, pincode, lat, lng, is_default, created_at, updated_at
		FROM address
		WHERE user_id = $1
		ORDER BY address_id
	`
	insertAddressQuery = `
		INSERT INTO address (user_id, name, phone, building, street, city, state, pincode, lat, lng, is_default, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING address_id
	`
	updateAddressQuery = `
		UPDATE address
		SET name=$3, phone=$4, building=$5, street=$6, city=$7, state=$8, pincode=$9, lat=$10, lng=$11, updated_at=$12
		WHERE user_id=$1 AND address_id=$2
	`
	deleteAddressQuery = `
		DELETE FROM address WHERE user_id=$1 AND address_id=$2
	`
	clearDefaultQuery = `
		UPDATE address SET is_default=false WHERE user_id=$1
	`
	setDefaultQuery = `
		UPDATE address SET is_default=true WHERE user_id=$1 AND address_id=$2
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAddresses(userID int) ([]Address, error) {
	rows, err := r.db.Query(selectAddressesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		var a Address
		var createdAt, updatedAt sql.NullString
		if err := rows.Scan(&a.AddressID, &a.UserID, &a.Name, &a.Phone, &a.Building, &a.Street, &a.City, &a.State, &a.Pincode, &a.Lat, &a.Lng, &a.IsDefault, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		a.CreatedAt = createdAt.String
		a.UpdatedAt = updatedAt.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AddAddress(addr Address) (Address, error) {
	err := r.db.QueryRow(
		insertAddressQuery,
		addr.UserID, addr.Name, addr.Phone, addr.Building, addr.Street,
		addr.City, addr.State, addr.Pincode, addr.Lat, addr.Lng,
		addr.IsDefault, addr.CreatedAt, addr.UpdatedAt,
	).Scan(&addr.AddressID)
	if err != nil {
		return Address{}, err
	}
	return addr, nil
}

func (r *PostgresRepository) UpdateAddress(addr Address) (Address, error) {
	res, err := r.db.Exec(
		updateAddressQuery,
		addr.UserID, addr.AddressID, addr.Name, addr.Phone, addr.Building,
		addr.Street, addr.City, addr.State, addr.Pincode, addr.Lat, addr.Lng,
		addr.UpdatedAt,
	)
	if err != nil {
		return Address{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Address{}, err
	}
	if affected == 0 {
		return Address{}, ErrNotFound
	}
	return addr, nil
}

func (r *PostgresRepository) DeleteAddress(userID, addressID int) error {
	res, err := r.db.Exec(deleteAddressQuery, userID, addressID)
	if err != nil {
		return err
	}
	cnt, _ := res.RowsAffected()
	if cnt == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetDefault(userID, addressID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(clearDefaultQuery, userID); err != nil {
		return err
	}
	res, err := tx.Exec(setDefaultQuery, userID, addressID)
	if err != nil {
		return err
	}
	cnt, _ := res.RowsAffected()
	if cnt == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
