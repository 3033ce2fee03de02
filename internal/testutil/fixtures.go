package testutil

// Users, cars and brands: cars.userId references users.id and cars.brandId
// references brands.id. User 1 owns two cars, user 2 owns none.
const GarageSQL = `
CREATE TABLE "users" (
	"id" TEXT PRIMARY KEY,
	"name" TEXT
);

CREATE TABLE "brands" (
	"id" TEXT PRIMARY KEY,
	"name" TEXT
);

CREATE TABLE "cars" (
	"id" TEXT PRIMARY KEY,
	"license" TEXT,
	"userId" TEXT REFERENCES "users"("id"),
	"brandId" TEXT REFERENCES "brands"("id")
);

INSERT INTO "users"("id", "name") VALUES ('1', 'John'), ('2', 'Peter');
INSERT INTO "brands"("id", "name") VALUES ('1', 'Chevrolet'), ('2', 'Volkswagen');
INSERT INTO "cars"("id", "license", "userId", "brandId") VALUES
	('1', 'ABC-123', '1', '1'),
	('2', 'XYZ-987', '1', '2');
`

// ResourcesSQL creates a table with a single JSON text column.
const ResourcesSQL = `
CREATE TABLE "resources" (
	"json" TEXT
);
`
