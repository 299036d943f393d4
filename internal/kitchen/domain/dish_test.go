package domain

import (
	"errors"
	"testing"
)

func TestCreateDish(t *testing.T) {
	dish, err := CreateDish(CreateDishInput{
		TenantID: "tenant-1",
		Name:     " Braised Short Rib ",
		Category: "mains",
		Price:    3200,
		Cost:     1400,
	}, fixedNow, staticID("dish-1"))
	if err != nil {
		t.Fatalf("CreateDish: %v", err)
	}

	if dish.Name != "Braised Short Rib" {
		t.Errorf("Name = %q, want trimmed name", dish.Name)
	}
	if !dish.Active {
		t.Error("new dishes start active")
	}
	if dish.Price != 3200 || dish.Cost != 1400 {
		t.Errorf("pricing not applied: %+v", dish)
	}
}

func TestCreateDishEmptyName(t *testing.T) {
	_, err := CreateDish(CreateDishInput{TenantID: "tenant-1"}, fixedNow, staticID("dish-1"))
	if !errors.Is(err, ErrDishNameEmpty) {
		t.Fatalf("err = %v, want ErrDishNameEmpty", err)
	}
}

func TestDishApplyUpdate(t *testing.T) {
	dish := Dish{ID: "dish-1", Name: "Old", Price: 3000, Active: true}
	err := dish.ApplyUpdate(UpdateDishInput{Name: "New", Price: 2800, Cost: 1200, Active: false}, fixedNow)
	if err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}
	if dish.Name != "New" || dish.Price != 2800 || dish.Active {
		t.Errorf("update not applied: %+v", dish)
	}
}

func TestDishSoftDelete(t *testing.T) {
	dish := Dish{ID: "dish-1"}
	dish.SoftDelete(fixedNow)
	if dish.DeletedAt == nil {
		t.Fatal("DeletedAt should be set")
	}
}
