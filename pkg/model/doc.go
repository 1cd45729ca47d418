// Package model は管理画面とバックエンドの間でやり取りするエンティティとリクエストDTOを定義する。
//
// エンティティはバックエンドのRESTレスポンスをそのまま写したもので、
// このリポジトリは正本を持たない。リクエストDTOにはフォーム単位の
// 必須チェックのみを記述し、エンティティ間の整合性はバックエンドに任せる。
package model
