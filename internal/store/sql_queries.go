package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/vosh/models"
)

// userColumns is the canonical column order used by every SELECT so row
// scanning stays in one shape.
var userColumns = []string{"username", "name", "password", "security_key", "pin", "privileges"}

// sqlite uses ordinary "?" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildCreateUser(user models.UserRecord) (string, []any, error) {
	return builder.
		Insert(user.TableName()).
		Columns(userColumns...).
		Values(
			user.HashedUsername,
			user.DisplayName,
			user.HashedPassword,
			user.HashedSecurityKey,
			user.HashedPIN,
			user.Privileges(),
		).
		ToSql()
}

func buildFindUser(hashedUsername string) (string, []any, error) {
	return builder.
		Select(userColumns...).
		From(models.UserRecord{}.TableName()).
		Where(sq.Eq{"username": hashedUsername}).
		ToSql()
}

func buildUpdateUserField(hashedUsername string, field models.UserField, value string) (string, []any, error) {
	return builder.
		Update(models.UserRecord{}.TableName()).
		Set(string(field), value).
		Where(sq.Eq{"username": hashedUsername}).
		ToSql()
}

func buildDeleteUser(hashedUsername string) (string, []any, error) {
	return builder.
		Delete(models.UserRecord{}.TableName()).
		Where(sq.Eq{"username": hashedUsername}).
		ToSql()
}

func buildUserExists(hashedUsername string) (string, []any, error) {
	return builder.
		Select("COUNT(1)").
		From(models.UserRecord{}.TableName()).
		Where(sq.Eq{"username": hashedUsername}).
		ToSql()
}

func buildListUsers() (string, []any, error) {
	return builder.
		Select(userColumns...).
		From(models.UserRecord{}.TableName()).
		OrderBy("name").
		ToSql()
}
